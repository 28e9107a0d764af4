// Package cmd declares the command line surface: serving the API and running
// migrations.
package cmd

type Context struct {
	Debug bool
}

// CLI is the kong command tree. Serving is the default so a bare invocation
// starts the API.
var CLI struct {
	Debug bool `help:"Enable debug mode"`

	Serve   ServeCmd   `cmd:"" default:"1"                    help:"Run the server"`
	Migrate MigrateCmd `cmd:"" help:"Run database migrations"`
}
