package editor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInputClosed is returned when the input stream ends before an answer.
var ErrInputClosed = errors.New("editor: input closed")

// Prompter asks questions on a terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Ask prints question and returns the answer, or def when the answer is blank.
func (p *Prompter) Ask(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a y/n question. Anything but y/yes is a no.
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s (y/n): ", question)
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Choose lists options numbered from 1 and returns the chosen index (1-based),
// asking again until the answer is in range.
func (p *Prompter) Choose(question string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("editor: no options to choose from")
	}
	fmt.Fprintln(p.out, question)
	for i, option := range options {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, option)
	}
	for {
		fmt.Fprint(p.out, "Enter your choice: ")
		answer, err := p.readLine()
		if err != nil {
			return 0, err
		}
		choice, convErr := strconv.Atoi(answer)
		switch {
		case convErr != nil:
			fmt.Fprintln(p.out, "Please enter a valid number.")
		case choice < 1 || choice > len(options):
			fmt.Fprintf(p.out, "Please enter a number between 1 and %d\n", len(options))
		default:
			return choice, nil
		}
	}
}
