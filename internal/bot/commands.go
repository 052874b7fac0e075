package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Command names understood by the gateway. Matching is case-insensitive.
const (
	CmdStart    = "start"
	CmdAddTask  = "addtask"
	CmdMyTasks  = "mytasks"
	CmdDelegate = "delegate"
	CmdComplete = "complete"
)

var errMalformedArgs = errors.New("malformed command arguments")

// ParseCommand splits a message text into a command name and its argument
// string. Texts that do not start with "/" are not commands and yield an
// empty name. A "@botname" suffix on the command is stripped.
func ParseCommand(text string) (string, string) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return "", ""
	}

	parts := strings.SplitN(trimmed, " ", 2)
	cmd := strings.TrimPrefix(parts[0], "/")
	if idx := strings.Index(cmd, "@"); idx >= 0 {
		cmd = cmd[:idx]
	}
	cmd = strings.ToLower(cmd)

	if len(parts) == 1 {
		return cmd, ""
	}
	return cmd, strings.TrimSpace(parts[1])
}

// parseTitleArg validates the free-text title argument of /addTask.
func parseTitleArg(args string) (string, error) {
	title := strings.TrimSpace(args)
	if title == "" {
		return "", errMalformedArgs
	}
	return title, nil
}

// parseTaskIDArg parses the single numeric task id of /complete.
func parseTaskIDArg(args string) (int64, error) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return 0, errMalformedArgs
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: task id must be a positive number", errMalformedArgs)
	}
	return id, nil
}

// parseDelegateArgs parses the "<taskId> <targetUserId>" pair of /delegate.
func parseDelegateArgs(args string) (taskID, targetUserID int64, err error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return 0, 0, errMalformedArgs
	}

	taskID, err = strconv.ParseInt(fields[0], 10, 64)
	if err != nil || taskID <= 0 {
		return 0, 0, fmt.Errorf("%w: task id must be a positive number", errMalformedArgs)
	}

	targetUserID, err = strconv.ParseInt(fields[1], 10, 64)
	if err != nil || targetUserID <= 0 {
		return 0, 0, fmt.Errorf("%w: user id must be a positive number", errMalformedArgs)
	}

	return taskID, targetUserID, nil
}
