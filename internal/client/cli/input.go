package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints a passphrase prompt to w and reads a passphrase
// from the user's terminal without echo. A newline is printed after
// the read to keep the UI tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter oracle passphrase: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetMinuteOfDay prompts for a time of day and parses it as a minute offset
// from midnight. Both "HH:MM" and a bare minute count are accepted, so
// "09:30" and "570" mean the same instant.
func GetMinuteOfDay(reader *bufio.Reader, prompt string, w io.Writer) (uint32, error) {
	s, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return 0, err
	}

	if h, m, ok := strings.Cut(s, ":"); ok {
		hours, err := strconv.ParseUint(h, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", s, err)
		}
		minutes, err := strconv.ParseUint(m, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", s, err)
		}
		if hours > 23 || minutes > 59 {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		return uint32(hours*60 + minutes), nil
	}

	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid minute count %q: %w", s, err)
	}
	return uint32(v), nil
}
