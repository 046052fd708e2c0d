package cli

import (
	"flag"
	"fmt"
	"strings"
)

type listCmd struct {
	openOnly bool
}

func (c *listCmd) Name() string      { return "list" }
func (c *listCmd) Aliases() []string { return []string{"ls"} }
func (c *listCmd) Synopsis() string  { return "Show tasks in order" }
func (c *listCmd) Usage() string     { return "todo list [--open]" }

func (c *listCmd) RegisterFlags(fs *flag.FlagSet) {
	c.openOnly = false
	fs.BoolVar(&c.openOnly, "open", false, "only show tasks not yet completed")
}

func (c *listCmd) Run(s *Session, args []string, streams Streams) int {
	if code := noExtraArgs(args, streams); code != ExitOK {
		return code
	}
	tasks := s.Store.Tasks()
	shown := 0
	for i, t := range tasks {
		if c.openOnly && t.Completed {
			continue
		}
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(streams.Out, "%3d. [%s] %s  (#%d)\n", i+1, mark, t.Text, t.ID)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(streams.Out, "No tasks.")
	}
	fmt.Fprintf(streams.Out, "Total Tasks: %d · %d open\n", s.Store.Count(), s.Store.Remaining())
	return ExitOK
}

type addCmd struct{}

func (c *addCmd) Name() string                { return "add" }
func (c *addCmd) Aliases() []string           { return nil }
func (c *addCmd) Synopsis() string            { return "Append a task" }
func (c *addCmd) Usage() string               { return "todo add <text...>" }
func (c *addCmd) RegisterFlags(*flag.FlagSet) {}

func (c *addCmd) Run(s *Session, args []string, streams Streams) int {
	text := strings.Join(args, " ")
	t, ok := s.Store.Add(text)
	if !ok {
		// blank text is not an error; the list is simply unchanged
		return ExitOK
	}
	s.Logbook.Info("Added · %s", t.Text)
	fmt.Fprintf(streams.Out, "Added #%d: %s\n", t.ID, t.Text)
	return ExitOK
}

type doneCmd struct{}

func (c *doneCmd) Name() string                { return "done" }
func (c *doneCmd) Aliases() []string           { return []string{"toggle"} }
func (c *doneCmd) Synopsis() string            { return "Flip a task between open and completed" }
func (c *doneCmd) Usage() string               { return "todo done <ref>" }
func (c *doneCmd) RegisterFlags(*flag.FlagSet) {}

func (c *doneCmd) Run(s *Session, args []string, streams Streams) int {
	id, code := resolveArg(s, args, streams)
	if code != ExitOK {
		return code
	}
	if code := noExtraArgs(args[1:], streams); code != ExitOK {
		return code
	}
	s.Store.ToggleComplete(id)
	if t, ok := s.Store.Get(id); ok {
		state := "open"
		if t.Completed {
			state = "completed"
		}
		s.Logbook.Info("Marked %s · %s", state, t.Text)
		fmt.Fprintf(streams.Out, "%s: %s\n", t.Text, state)
	}
	return ExitOK
}

type rmCmd struct{}

func (c *rmCmd) Name() string                { return "rm" }
func (c *rmCmd) Aliases() []string           { return []string{"delete"} }
func (c *rmCmd) Synopsis() string            { return "Delete a task" }
func (c *rmCmd) Usage() string               { return "todo rm <ref>" }
func (c *rmCmd) RegisterFlags(*flag.FlagSet) {}

func (c *rmCmd) Run(s *Session, args []string, streams Streams) int {
	id, code := resolveArg(s, args, streams)
	if code != ExitOK {
		return code
	}
	if code := noExtraArgs(args[1:], streams); code != ExitOK {
		return code
	}
	t, found := s.Store.Get(id)
	s.Store.Remove(id)
	if found {
		s.Logbook.Info("Deleted · %s", t.Text)
		fmt.Fprintf(streams.Out, "Deleted: %s\n", t.Text)
	}
	return ExitOK
}

type editCmd struct{}

func (c *editCmd) Name() string                { return "edit" }
func (c *editCmd) Aliases() []string           { return nil }
func (c *editCmd) Synopsis() string            { return "Replace a task's text (prompts when text is omitted)" }
func (c *editCmd) Usage() string               { return "todo edit <ref> [text...]" }
func (c *editCmd) RegisterFlags(*flag.FlagSet) {}

func (c *editCmd) Run(s *Session, args []string, streams Streams) int {
	id, code := resolveArg(s, args, streams)
	if code != ExitOK {
		return code
	}
	before, found := s.Store.Get(id)
	if len(args) > 1 {
		s.Store.Edit(id, strings.Join(args[1:], " "))
	} else {
		s.Store.EditWithPrompt(id, LinePrompt(streams.In, streams.Out))
	}
	if after, ok := s.Store.Get(id); found && ok && after.Text != before.Text {
		s.Logbook.Info("Edited · %s → %s", before.Text, after.Text)
		fmt.Fprintf(streams.Out, "Edited: %s\n", after.Text)
	}
	return ExitOK
}

type clearCmd struct{}

func (c *clearCmd) Name() string                { return "clear" }
func (c *clearCmd) Aliases() []string           { return nil }
func (c *clearCmd) Synopsis() string            { return "Delete every task" }
func (c *clearCmd) Usage() string               { return "todo clear" }
func (c *clearCmd) RegisterFlags(*flag.FlagSet) {}

func (c *clearCmd) Run(s *Session, args []string, streams Streams) int {
	if code := noExtraArgs(args, streams); code != ExitOK {
		return code
	}
	n := s.Store.Count()
	s.Store.Clear()
	s.Logbook.Info("Cleared %d task(s)", n)
	fmt.Fprintf(streams.Out, "Cleared %d task(s)\n", n)
	return ExitOK
}

type countCmd struct{}

func (c *countCmd) Name() string                { return "count" }
func (c *countCmd) Aliases() []string           { return nil }
func (c *countCmd) Synopsis() string            { return "Print the number of tasks" }
func (c *countCmd) Usage() string               { return "todo count" }
func (c *countCmd) RegisterFlags(*flag.FlagSet) {}

func (c *countCmd) Run(s *Session, args []string, streams Streams) int {
	if code := noExtraArgs(args, streams); code != ExitOK {
		return code
	}
	fmt.Fprintln(streams.Out, s.Store.Count())
	return ExitOK
}

func resolveArg(s *Session, args []string, streams Streams) (int64, int) {
	ref, err := ParseRef(args)
	if err != nil {
		fmt.Fprintf(streams.Err, "error: %v\n", err)
		return 0, ExitUsage
	}
	return ResolveRef(s.Store.Tasks(), ref), ExitOK
}

func noExtraArgs(args []string, streams Streams) int {
	if len(args) > 0 {
		fmt.Fprintf(streams.Err, "error: unexpected argument: %s\n", args[0])
		return ExitUsage
	}
	return ExitOK
}
