package ctl

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/libris/internal/common"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// GetSimpleText prints prompt to w and reads one trimmed line. A final line
// without a newline is still returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
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

// GetPassword reads a password without echo when stdin is a terminal, or a
// plain line from reader otherwise (for scripted use).
//
// The returned byte slice should be wiped by the caller.
func GetPassword(reader *bufio.Reader, prompt string, w io.Writer) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		line, err := GetSimpleText(reader, prompt, io.Discard)
		return []byte(line), err
	}

	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetNewPassword asks for a password twice and fails if the entries differ.
func GetNewPassword(reader *bufio.Reader, w io.Writer) ([]byte, error) {
	pw, err := GetPassword(reader, "Password", w)
	if err != nil {
		return nil, err
	}
	confirm, err := GetPassword(reader, "Repeat password", w)
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pw, confirm) {
		common.WipeByteArray(pw)
		return nil, errors.New("passwords do not match")
	}
	return pw, nil
}
