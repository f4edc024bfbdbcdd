package main

// Options is the root command that groups sub-commands.  The struct tags are
// interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Version bool        `short:"V" long:"version" description:"print version and exit"`
	Run     *RunCmd     `command:"run" description:"Drive a support case through the stage pipeline"`
	Serve   *ServeCmd   `command:"serve" description:"Expose a built-in provider as an MCP HTTP server"`
	Routes  *RoutesCmd  `command:"routes" description:"Print the stage ability provider routing table"`
	History *HistoryCmd `command:"history" description:"List stored runs"`
	Secret  *SecretCmd  `command:"secret" description:"Store or reveal an endpoint credential"`
}

// Init instantiates the sub-command referenced by the first argument so that
// flags.Parse can populate its fields.
func (o *Options) Init(firstArg string) {
	switch firstArg {
	case "run":
		o.Run = &RunCmd{}
	case "serve":
		o.Serve = &ServeCmd{}
	case "routes":
		o.Routes = &RoutesCmd{}
	case "history":
		o.History = &HistoryCmd{}
	case "secret":
		o.Secret = &SecretCmd{}
	}
}
