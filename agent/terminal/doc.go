// Package terminal implements the interactive command-line mode: the
// line-oriented command surface (/connect, /connect-server, /servers,
// /tools, /use, /help, /exit), markdown rendering of model responses, and
// the progress spinner shown while a model or tool call is pending. It holds
// no decision logic; everything of consequence happens in the agent package.
package terminal
