package server //nolint:testpackage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"brygghaus.dev/BeerLedger/configs"
	"brygghaus.dev/BeerLedger/pkg/auth"
	"brygghaus.dev/BeerLedger/pkg/catalog"
	"brygghaus.dev/BeerLedger/pkg/model"
	"brygghaus.dev/BeerLedger/pkg/rating"
	"brygghaus.dev/BeerLedger/pkg/repository"
	"brygghaus.dev/BeerLedger/pkg/sheets"
	"brygghaus.dev/BeerLedger/pkg/stats"
)

// fakeStore backs every handler with in-memory maps so routes can be driven
// end to end through the router, auth middleware included.
type fakeStore struct {
	users        map[string]*model.User
	beers        map[uint]*model.Beer
	tastings     map[uint]*model.Tasting
	tastingBeers map[uint]*model.TastingBeer
	styles       []model.BeerType
	nextID       uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        map[string]*model.User{},
		beers:        map[uint]*model.Beer{},
		tastings:     map[uint]*model.Tasting{},
		tastingBeers: map[uint]*model.TastingBeer{},
		styles:       []model.BeerType{{Name: "IPA"}, {Name: "Lager"}},
		nextID:       1,
	}
}

func (f *fakeStore) id() uint {
	id := f.nextID
	f.nextID++

	return id
}

func (f *fakeStore) AddUser(_ context.Context, username string, passwordHash string, role string) (*model.User, error) {
	user := &model.User{Username: username, Password: passwordHash, Role: role}
	user.ID = f.id()
	f.users[username] = user

	return user, nil
}

func (f *fakeStore) GetUserByName(_ context.Context, username string) (*model.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeStore) ListUsers(_ context.Context, page int, limit int) (*repository.Page[model.User], error) {
	users := make([]model.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, *user)
	}

	return repository.NewPage(users, int64(len(users)), page, limit), nil
}

func (f *fakeStore) UpdateUserRole(_ context.Context, userID uint, role string) (*model.User, error) {
	for _, user := range f.users {
		if user.ID == userID {
			user.Role = role

			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeStore) AddBeer(_ context.Context, beer model.Beer) (*model.Beer, error) {
	beer.ID = f.id()
	f.beers[beer.ID] = &beer

	return &beer, nil
}

func (f *fakeStore) GetBeerByID(_ context.Context, beerID uint) (*model.Beer, error) {
	beer, ok := f.beers[beerID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", repository.ErrBeerNotFound, beerID)
	}

	return beer, nil
}

func (f *fakeStore) UpdateBeer(_ context.Context, beer *model.Beer) (*model.Beer, error) {
	f.beers[beer.ID] = beer

	return beer, nil
}

func (f *fakeStore) DeleteBeer(_ context.Context, beerID uint) error {
	if _, ok := f.beers[beerID]; !ok {
		return repository.ErrBeerNotFound
	}

	delete(f.beers, beerID)

	return nil
}

func (f *fakeStore) GetStylesByNames(_ context.Context, names []string) ([]model.BeerType, error) {
	var matched []model.BeerType

	for _, style := range f.styles {
		for _, name := range names {
			if style.Name == name {
				matched = append(matched, style)
			}
		}
	}

	return matched, nil
}

func (f *fakeStore) GetAllStyles(_ context.Context) ([]model.BeerType, error) {
	return f.styles, nil
}

func (f *fakeStore) AddStyle(_ context.Context, name string) (*model.BeerType, error) {
	style := model.BeerType{Name: name}
	style.ID = f.id()
	f.styles = append(f.styles, style)

	return &style, nil
}

func (f *fakeStore) DeleteStyle(_ context.Context, styleID uint) (*model.BeerType, error) {
	for index, style := range f.styles {
		if style.ID == styleID {
			f.styles = append(f.styles[:index], f.styles[index+1:]...)

			return &style, nil
		}
	}

	return nil, repository.ErrBeerNotFound
}

func (f *fakeStore) GetRatingsForUser(_ context.Context, _ uint, _ *uint) ([]model.Rating, error) {
	return []model.Rating{
		{BeerID: 1, Score: 4, Beer: &model.Beer{Name: "Midnight Stout"}},
	}, nil
}

func (f *fakeStore) GetUnratedBeers(_ context.Context, _ uint, page int, limit int) (*repository.Page[model.Beer], error) {
	return repository.NewPage([]model.Beer{}, 0, page, limit), nil
}

func (f *fakeStore) GetRatedBeers(_ context.Context, _ uint, page int, limit int) (*repository.Page[model.Beer], error) {
	return repository.NewPage([]model.Beer{}, 0, page, limit), nil
}

func (f *fakeStore) AddTasting(_ context.Context, tasting model.Tasting) (*model.Tasting, error) {
	tasting.ID = f.id()
	f.tastings[tasting.ID] = &tasting

	return &tasting, nil
}

func (f *fakeStore) GetTastingByID(_ context.Context, tastingID uint) (*model.Tasting, error) {
	tasting, ok := f.tastings[tastingID]
	if !ok {
		return nil, repository.ErrTastingNotFound
	}

	return tasting, nil
}

func (f *fakeStore) FindTastings(_ context.Context, _ string, page int, limit int) (*repository.Page[model.Tasting], error) {
	tastings := make([]model.Tasting, 0, len(f.tastings))
	for _, tasting := range f.tastings {
		tastings = append(tastings, *tasting)
	}

	return repository.NewPage(tastings, int64(len(tastings)), page, limit), nil
}

func (f *fakeStore) UpdateTasting(_ context.Context, tasting *model.Tasting) (*model.Tasting, error) {
	f.tastings[tasting.ID] = tasting

	return tasting, nil
}

func (f *fakeStore) DeleteTasting(_ context.Context, tastingID uint) error {
	if _, ok := f.tastings[tastingID]; !ok {
		return repository.ErrTastingNotFound
	}

	delete(f.tastings, tastingID)

	return nil
}

func (f *fakeStore) AddTastingBeer(_ context.Context, beer model.TastingBeer) (*model.TastingBeer, error) {
	beer.ID = f.id()
	f.tastingBeers[beer.ID] = &beer

	return &beer, nil
}

func (f *fakeStore) GetTastingBeerByID(_ context.Context, beerID uint) (*model.TastingBeer, error) {
	beer, ok := f.tastingBeers[beerID]
	if !ok {
		return nil, repository.ErrTastingBeerNotFound
	}

	return beer, nil
}

func (f *fakeStore) UpdateTastingBeer(_ context.Context, beer *model.TastingBeer) (*model.TastingBeer, error) {
	f.tastingBeers[beer.ID] = beer

	return beer, nil
}

func (f *fakeStore) DeleteTastingBeer(_ context.Context, beerID uint) (*model.TastingBeer, error) {
	beer, ok := f.tastingBeers[beerID]
	if !ok {
		return nil, repository.ErrTastingBeerNotFound
	}

	delete(f.tastingBeers, beerID)

	return beer, nil
}

// fakeAggregator records calls and delegates nothing to storage.
type fakeAggregator struct {
	store   *fakeStore
	ratings map[uint]*model.Rating
	nextID  uint
}

func newFakeAggregator(store *fakeStore) *fakeAggregator {
	return &fakeAggregator{store: store, ratings: map[uint]*model.Rating{}, nextID: 1}
}

func (f *fakeAggregator) AddRating(_ context.Context, beerID uint, userID uint, score float64, comment string) (*model.Rating, error) {
	if _, ok := f.store.beers[beerID]; !ok {
		return nil, fmt.Errorf("%w: id %d", rating.ErrBeerNotFound, beerID)
	}

	for _, existing := range f.ratings {
		if existing.BeerID == beerID && existing.UserID == userID {
			return nil, fmt.Errorf("%w: beer %d", rating.ErrDuplicateRating, beerID)
		}
	}

	created := &model.Rating{BeerID: beerID, UserID: userID, Score: score, Comment: comment}
	created.ID = f.nextID
	f.nextID++
	f.ratings[created.ID] = created

	return created, nil
}

func (f *fakeAggregator) UpdateRating(_ context.Context, ratingID uint, userID uint, score float64, comment string) (*model.Rating, error) {
	existing, ok := f.ratings[ratingID]
	if !ok {
		return nil, rating.ErrRatingNotFound
	}

	if existing.UserID != userID {
		return nil, rating.ErrNotRatingOwner
	}

	existing.Score = score
	existing.Comment = comment

	return existing, nil
}

func (f *fakeAggregator) DeleteRating(_ context.Context, ratingID uint, userID uint) error {
	existing, ok := f.ratings[ratingID]
	if !ok {
		return rating.ErrRatingNotFound
	}

	if existing.UserID != userID {
		return rating.ErrNotRatingOwner
	}

	delete(f.ratings, ratingID)

	return nil
}

func (f *fakeAggregator) AddBatchRatings(ctx context.Context, userID uint, entries []rating.BatchEntry) ([]*model.Rating, error) {
	created := make([]*model.Rating, 0, len(entries))

	for _, entry := range entries {
		added, err := f.AddRating(ctx, entry.BeerID, userID, entry.Score, entry.Comment)
		if err != nil {
			continue
		}

		created = append(created, added)
	}

	return created, nil
}

func (f *fakeAggregator) AddTastingReview(_ context.Context, tastingID uint, _ uint, _ float64, _ string) (*model.Tasting, error) {
	return f.store.tastings[tastingID], nil
}

func (f *fakeAggregator) AddBeerToTasting(_ context.Context, tastingID uint, beerID uint) (*model.Tasting, error) {
	tasting, ok := f.store.tastings[tastingID]
	if !ok {
		return nil, rating.ErrTastingNotFound
	}

	beer, ok := f.store.beers[beerID]
	if !ok {
		return nil, rating.ErrBeerNotFound
	}

	tasting.Beers = append(tasting.Beers, *beer)

	return tasting, nil
}

func (f *fakeAggregator) RemoveBeerFromTasting(_ context.Context, tastingID uint, beerID uint) (*model.Tasting, error) {
	tasting, ok := f.store.tastings[tastingID]
	if !ok {
		return nil, rating.ErrTastingNotFound
	}

	for index, beer := range tasting.Beers {
		if beer.ID == beerID {
			tasting.Beers = append(tasting.Beers[:index], tasting.Beers[index+1:]...)

			return tasting, nil
		}
	}

	return nil, rating.ErrBeerNotInTasting
}

func (f *fakeAggregator) CheckIn(_ context.Context, tastingID uint, user *model.User) (*model.Tasting, error) {
	tasting, ok := f.store.tastings[tastingID]
	if !ok {
		return nil, rating.ErrTastingNotFound
	}

	tasting.Attendees = append(tasting.Attendees, *user)

	return tasting, nil
}

func (f *fakeAggregator) RecomputeTasting(_ context.Context, _ uint) error {
	return nil
}

type fakeStats struct{}

func (fakeStats) GetUserStats(_ context.Context, userID uint) (*stats.Report, error) {
	return &stats.Report{
		Username:        "sven",
		DaysMember:      7,
		TotalBeersRated: int64(userID),
		TopTenBeers: []model.Rating{
			{BeerID: 1, Score: 5, Beer: &model.Beer{Name: "Westvleteren 12"}},
		},
	}, nil
}

type fakeCatalog struct {
	store *fakeStore
}

func (f fakeCatalog) ListBeers(_ context.Context, options catalog.Options) (*catalog.BeerPage, error) {
	beers := make([]model.Beer, 0, len(f.store.beers))
	for _, beer := range f.store.beers {
		beers = append(beers, *beer)
	}

	return &catalog.BeerPage{
		Page:           repository.NewPage(beers, int64(len(beers)), 1, 10),
		ValidBeerTypes: []string{"IPA", "Lager"},
		Breweries:      []string{},
	}, nil
}

func (f fakeCatalog) ListTastingBeers(_ context.Context, _ catalog.Options) (*repository.Page[model.TastingBeer], error) {
	return repository.NewPage([]model.TastingBeer{}, 0, 1, 10), nil
}

type fakeImporter struct {
	cleared []string
}

func (f *fakeImporter) GetBeers(_ context.Context) (*sheets.Report, error) {
	return &sheets.Report{Headers: []string{"Name"}, Data: [][]string{{"Helles"}}}, nil
}

func (f *fakeImporter) ClearCache(_ context.Context, cacheName string) error {
	if cacheName != "beers" {
		return sheets.ErrUnknownCache
	}

	f.cleared = append(f.cleared, cacheName)

	return nil
}

type ServerSuite struct {
	suite.Suite
	store      *fakeStore
	aggregator *fakeAggregator
	manager    *auth.Manager
	router     *gin.Engine
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	conf := &configs.Config{}
	conf.Auth.SecretKey = "test-secret"
	conf.Auth.TokenTTLHours = 1

	s.store = newFakeStore()
	s.aggregator = newFakeAggregator(s.store)
	s.manager = auth.NewAuthManager(conf, s.store, zap.NewNop())

	server := &Server{
		conf:        conf,
		users:       s.store,
		beers:       s.store,
		ratings:     s.store,
		tastings:    s.store,
		tastingBeers: s.store,
		aggregator:  s.aggregator,
		stats:       fakeStats{},
		catalog:     fakeCatalog{store: s.store},
		importer:    &fakeImporter{},
		authManager: s.manager,
		logger:      zap.NewNop(),
	}
	s.router = server.Router()
}

func (s *ServerSuite) userToken(username string, role string) string {
	hash, err := s.manager.HashPassword("hunter2")
	s.Require().NoError(err)

	user, err := s.store.AddUser(context.Background(), username, hash, role)
	s.Require().NoError(err)

	token, err := s.manager.GenerateToken(user)
	s.Require().NoError(err)

	return token
}

func (s *ServerSuite) do(method string, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)

	return recorder
}

func (s *ServerSuite) TestHealth() {
	recorder := s.do(http.MethodGet, "/api/health", nil, "")
	s.Require().Equal(http.StatusOK, recorder.Code)
}

func (s *ServerSuite) TestRegisterAndLogin() {
	recorder := s.do(http.MethodPost, "/api/auth/register", gin.H{"username": "sven", "password": "hunter22"}, "")
	s.Require().Equal(http.StatusCreated, recorder.Code)

	var registered authResponse
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &registered))
	s.Require().Equal(model.RoleViewer, registered.Role)
	s.Require().NotEmpty(registered.Token)

	recorder = s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "sven", "password": "hunter22"}, "")
	s.Require().Equal(http.StatusOK, recorder.Code)
}

func (s *ServerSuite) TestRegisterDuplicateUsername() {
	recorder := s.do(http.MethodPost, "/api/auth/register", gin.H{"username": "sven", "password": "hunter22"}, "")
	s.Require().Equal(http.StatusCreated, recorder.Code)

	recorder = s.do(http.MethodPost, "/api/auth/register", gin.H{"username": "sven", "password": "hunter22"}, "")
	s.Require().Equal(http.StatusBadRequest, recorder.Code)
}

func (s *ServerSuite) TestLoginBadPassword() {
	s.userToken("sven", model.RoleUser)

	recorder := s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "sven", "password": "wrong-pass"}, "")
	s.Require().Equal(http.StatusUnauthorized, recorder.Code)
}

func (s *ServerSuite) TestProtectedRouteRequiresToken() {
	recorder := s.do(http.MethodGet, "/api/tastings", nil, "")
	s.Require().Equal(http.StatusUnauthorized, recorder.Code)
}

func (s *ServerSuite) TestCatalogReadsArePublic() {
	beer, err := s.store.AddBeer(context.Background(), model.Beer{Name: "Helles"})
	s.Require().NoError(err)

	recorder := s.do(http.MethodGet, "/api/beers", nil, "")
	s.Require().Equal(http.StatusOK, recorder.Code)

	recorder = s.do(http.MethodGet, fmt.Sprintf("/api/beers/%d", beer.ID), nil, "")
	s.Require().Equal(http.StatusOK, recorder.Code)

	recorder = s.do(http.MethodGet, "/api/beer-types", nil, "")
	s.Require().Equal(http.StatusOK, recorder.Code)

	recorder = s.do(http.MethodPost, "/api/beers", gin.H{"name": "Sneaky", "type": []string{"Lager"}}, "")
	s.Require().Equal(http.StatusUnauthorized, recorder.Code)
}

func (s *ServerSuite) TestSearchBeersRequiresAdmin() {
	token := s.userToken("sven", model.RoleUser)

	recorder := s.do(http.MethodGet, "/api/beers/search?q=helles", nil, token)
	s.Require().Equal(http.StatusUnauthorized, recorder.Code)

	adminToken := s.userToken("boss", model.RoleAdmin)
	recorder = s.do(http.MethodGet, "/api/beers/search?q=helles", nil, adminToken)
	s.Require().Equal(http.StatusOK, recorder.Code)
}

func (s *ServerSuite) TestViewerCannotPost() {
	token := s.userToken("lurker", model.RoleViewer)

	recorder := s.do(http.MethodPost, "/api/ratings", gin.H{"beerId": 1, "score": 4}, token)
	s.Require().Equal(http.StatusUnauthorized, recorder.Code)
}

func (s *ServerSuite) TestAddRatingFlow() {
	token := s.userToken("sven", model.RoleUser)
	beer, err := s.store.AddBeer(context.Background(), model.Beer{Name: "Helles"})
	s.Require().NoError(err)

	recorder := s.do(http.MethodPost, "/api/ratings", gin.H{"beerId": beer.ID, "score": 4.5, "comment": "crisp"}, token)
	s.Require().Equal(http.StatusCreated, recorder.Code)

	// a second rating of the same beer by the same user is rejected
	recorder = s.do(http.MethodPost, "/api/ratings", gin.H{"beerId": beer.ID, "score": 3}, token)
	s.Require().Equal(http.StatusBadRequest, recorder.Code)
}

func (s *ServerSuite) TestAddRatingUnknownBeer() {
	token := s.userToken("sven", model.RoleUser)

	recorder := s.do(http.MethodPost, "/api/ratings", gin.H{"beerId": 99, "score": 4}, token)
	s.Require().Equal(http.StatusNotFound, recorder.Code)
}

func (s *ServerSuite) TestBatchRatings() {
	token := s.userToken("sven", model.RoleUser)
	beer, err := s.store.AddBeer(context.Background(), model.Beer{Name: "Helles"})
	s.Require().NoError(err)

	recorder := s.do(http.MethodPost, "/api/ratings/batch", gin.H{
		"ratings": []gin.H{
			{"beerId": beer.ID, "score": 4},
			{"beerId": 99, "score": 3},
		},
	}, token)
	s.Require().Equal(http.StatusCreated, recorder.Code)

	var response struct {
		Count int `json:"count"`
	}
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	s.Require().Equal(1, response.Count)
}

func (s *ServerSuite) TestCreateBeerUnknownStylesRejected() {
	token := s.userToken("sven", model.RoleUser)

	recorder := s.do(http.MethodPost, "/api/beers", gin.H{"name": "Weird One", "type": []string{"Gruit"}}, token)
	s.Require().Equal(http.StatusBadRequest, recorder.Code)
}

func (s *ServerSuite) TestCreateBeer() {
	token := s.userToken("sven", model.RoleUser)

	recorder := s.do(http.MethodPost, "/api/beers", gin.H{"name": "Helles", "type": []string{"Lager"}}, token)
	s.Require().Equal(http.StatusCreated, recorder.Code)
}

func (s *ServerSuite) TestGetBeerNotFound() {
	token := s.userToken("sven", model.RoleUser)

	recorder := s.do(http.MethodGet, "/api/beers/42", nil, token)
	s.Require().Equal(http.StatusNotFound, recorder.Code)
}

func (s *ServerSuite) TestDeleteBeerRequiresAdmin() {
	token := s.userToken("sven", model.RoleUser)
	beer, err := s.store.AddBeer(context.Background(), model.Beer{Name: "Helles"})
	s.Require().NoError(err)

	recorder := s.do(http.MethodDelete, fmt.Sprintf("/api/beers/%d", beer.ID), nil, token)
	s.Require().Equal(http.StatusUnauthorized, recorder.Code)

	adminToken := s.userToken("boss", model.RoleAdmin)
	recorder = s.do(http.MethodDelete, fmt.Sprintf("/api/beers/%d", beer.ID), nil, adminToken)
	s.Require().Equal(http.StatusOK, recorder.Code)
}

func (s *ServerSuite) TestStatsEndpoint() {
	token := s.userToken("sven", model.RoleUser)

	recorder := s.do(http.MethodGet, "/api/stats", nil, token)
	s.Require().Equal(http.StatusOK, recorder.Code)
	s.Require().Contains(recorder.Body.String(), "daysMember")
	// the top beers carry the resolved beer, not just its id
	s.Require().Contains(recorder.Body.String(), "Westvleteren 12")
}

func (s *ServerSuite) TestUserRatingsIncludeBeer() {
	token := s.userToken("sven", model.RoleUser)

	recorder := s.do(http.MethodGet, "/api/ratings/user-ratings", nil, token)
	s.Require().Equal(http.StatusOK, recorder.Code)
	s.Require().Contains(recorder.Body.String(), "Midnight Stout")
}

func (s *ServerSuite) TestUpdateTastingReplacesBeers() {
	token := s.userToken("sven", model.RoleUser)

	first, err := s.store.AddBeer(context.Background(), model.Beer{Name: "Helles"})
	s.Require().NoError(err)
	second, err := s.store.AddBeer(context.Background(), model.Beer{Name: "Midnight"})
	s.Require().NoError(err)

	tasting, err := s.store.AddTasting(context.Background(), model.Tasting{Name: "Oktober", Beers: []model.Beer{*first}})
	s.Require().NoError(err)

	recorder := s.do(http.MethodPut, fmt.Sprintf("/api/tastings/%d", tasting.ID),
		gin.H{"name": "Oktober", "beerIds": []uint{second.ID}}, token)
	s.Require().Equal(http.StatusOK, recorder.Code)

	members := s.store.tastings[tasting.ID].Beers
	s.Require().Len(members, 1)
	s.Require().Equal(second.ID, members[0].ID)
}

func (s *ServerSuite) TestUpdateTastingWithoutBeerIDsKeepsMembers() {
	token := s.userToken("sven", model.RoleUser)

	beer, err := s.store.AddBeer(context.Background(), model.Beer{Name: "Helles"})
	s.Require().NoError(err)

	tasting, err := s.store.AddTasting(context.Background(), model.Tasting{Name: "Oktober", Beers: []model.Beer{*beer}})
	s.Require().NoError(err)

	recorder := s.do(http.MethodPut, fmt.Sprintf("/api/tastings/%d", tasting.ID), gin.H{"name": "November"}, token)
	s.Require().Equal(http.StatusOK, recorder.Code)
	s.Require().Len(s.store.tastings[tasting.ID].Beers, 1)
	s.Require().Equal("November", s.store.tastings[tasting.ID].Name)
}

func (s *ServerSuite) TestAdminUsersGate() {
	token := s.userToken("sven", model.RoleUser)

	recorder := s.do(http.MethodGet, "/api/admin/users", nil, token)
	s.Require().Equal(http.StatusUnauthorized, recorder.Code)

	adminToken := s.userToken("boss", model.RoleAdmin)
	recorder = s.do(http.MethodGet, "/api/admin/users", nil, adminToken)
	s.Require().Equal(http.StatusOK, recorder.Code)
}

func (s *ServerSuite) TestUpdateUserRole() {
	adminToken := s.userToken("boss", model.RoleAdmin)
	target, err := s.store.AddUser(context.Background(), "newbie", "hash", model.RoleViewer)
	s.Require().NoError(err)

	recorder := s.do(http.MethodPut, fmt.Sprintf("/api/admin/users/%d/role", target.ID), gin.H{"role": "user"}, adminToken)
	s.Require().Equal(http.StatusOK, recorder.Code)
	s.Require().Equal(model.RoleUser, s.store.users["newbie"].Role)

	recorder = s.do(http.MethodPut, fmt.Sprintf("/api/admin/users/%d/role", target.ID), gin.H{"role": "emperor"}, adminToken)
	s.Require().Equal(http.StatusBadRequest, recorder.Code)
}

func (s *ServerSuite) TestTastingCheckIn() {
	token := s.userToken("sven", model.RoleUser)
	tasting, err := s.store.AddTasting(context.Background(), model.Tasting{Name: "Oktober"})
	s.Require().NoError(err)

	recorder := s.do(http.MethodPost, fmt.Sprintf("/api/tastings/%d/checkin", tasting.ID), nil, token)
	s.Require().Equal(http.StatusOK, recorder.Code)
	s.Require().Len(s.store.tastings[tasting.ID].Attendees, 1)
}

func (s *ServerSuite) TestSheetEndpoints() {
	token := s.userToken("sven", model.RoleUser)

	recorder := s.do(http.MethodGet, "/api/sheets/beers", nil, token)
	s.Require().Equal(http.StatusOK, recorder.Code)
	s.Require().Contains(recorder.Body.String(), "Helles")

	adminToken := s.userToken("boss", model.RoleAdmin)
	recorder = s.do(http.MethodPost, "/api/sheets/clear-cache", gin.H{"cacheName": "breweries"}, adminToken)
	s.Require().Equal(http.StatusNotFound, recorder.Code)

	recorder = s.do(http.MethodPost, "/api/sheets/clear-cache", gin.H{"cacheName": "beers"}, adminToken)
	s.Require().Equal(http.StatusOK, recorder.Code)
}

func (s *ServerSuite) TestListBeerTypes() {
	token := s.userToken("sven", model.RoleUser)

	recorder := s.do(http.MethodGet, "/api/beer-types", nil, token)
	s.Require().Equal(http.StatusOK, recorder.Code)
	s.Require().Contains(recorder.Body.String(), "IPA")
}
