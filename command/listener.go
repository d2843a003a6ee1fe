package command

// Listener receives callbacks around command dispatch
// All callbacks fire synchronously inside the dispatch call;
// cmd is nil when the built-in help responder was invoked
type Listener interface {
	// OnCommand is called when a message has been matched to a command,
	// before any of the command's checks run
	OnCommand(ev *Event, cmd *Command)
	// OnCompletedCommand is called after a command's body returned normally
	OnCompletedCommand(ev *Event, cmd *Command)
	// OnTerminatedCommand is called when one of a command's checks rejected
	// the invocation before the body ran
	OnTerminatedCommand(ev *Event, cmd *Command)
	// OnNonCommandMessage is called for messages that did not resolve to a
	// command invocation
	OnNonCommandMessage(ev *Event)
}

// ExceptionListener can be implemented alongside Listener to be handed panics
// escaping a command body. Without it, the panic is re-raised
type ExceptionListener interface {
	OnCommandException(ev *Event, cmd *Command, recovered any)
}

// NopListener implements Listener with no-ops so listeners only have to
// declare the callbacks they care about
type NopListener struct{}

func (NopListener) OnCommand(*Event, *Command)           {}
func (NopListener) OnCompletedCommand(*Event, *Command)  {}
func (NopListener) OnTerminatedCommand(*Event, *Command) {}
func (NopListener) OnNonCommandMessage(*Event)           {}
