package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kingrea/todo/internal/task"
)

// ErrRefRequired indicates no task reference was provided.
var ErrRefRequired = errors.New("task reference required")

// ParseRef reads a task reference: a 1-based position in the list or a
// task id. Either way it must be a positive integer.
func ParseRef(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, ErrRefRequired
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid task reference: %s", args[0])
	}
	return n, nil
}

// ResolveRef maps a reference to a task id. Numbers up to the list length
// are positions; anything larger is taken as an id as-is. Ids are
// millisecond timestamps, so the two ranges never meet in practice. An id
// that matches nothing is returned unchanged and the store ignores it.
func ResolveRef(tasks []task.Task, ref int64) int64 {
	if ref >= 1 && ref <= int64(len(tasks)) {
		return tasks[ref-1].ID
	}
	return ref
}

// LinePrompt asks for replacement text on out and reads one line from in.
// End of input cancels.
func LinePrompt(in io.Reader, out io.Writer) task.Prompt {
	reader := bufio.NewReader(in)
	return func(current string) (string, bool) {
		fmt.Fprintf(out, "Edit your task [%s]: ", current)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return "", false
		}
		return strings.TrimRight(line, "\r\n"), true
	}
}
