package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vanshika/datafaker/internal/domain"
	"github.com/vanshika/datafaker/internal/generator"
	"github.com/vanshika/datafaker/internal/orggraph"
)

// DefaultMaxAttempts is how many answers a question accepts before giving up.
const DefaultMaxAttempts = 3

// Source supplies the plan for a run.
type Source interface {
	Collect(ctx context.Context) (generator.Plan, error)
}

// Static is a Source whose answers are known up front, typically from flags or env.
type Static struct {
	Plan generator.Plan
}

func (s Static) Collect(ctx context.Context) (generator.Plan, error) {
	if err := ctx.Err(); err != nil {
		return generator.Plan{}, err
	}
	if err := s.Plan.Validate(); err != nil {
		return generator.Plan{}, err
	}
	return s.Plan, nil
}

// Prompter asks the operator every question on a line-oriented terminal.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	logger      *zap.Logger
	MaxAttempts int
}

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer, logger *zap.Logger) *Prompter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		logger:      logger,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Collect asks for the person count, the graph topology, the three attributes and the
// three transaction types, in that order.
func (p *Prompter) Collect(ctx context.Context) (generator.Plan, error) {
	var plan generator.Plan

	err := p.ask(ctx, "How many people would you like to create? (Please enter whole number):  ",
		"Please enter a whole number greater than zero.",
		func(answer string) error {
			n, err := strconv.Atoi(answer)
			if err != nil || n <= 0 {
				return errInvalid
			}
			plan.People = n
			return nil
		})
	if err != nil {
		return plan, err
	}

	err = p.ask(ctx, "Would you like coworker relationships created? (tree/random/none):  ",
		"Invalid selection.  Please enter tree, random or none.",
		func(answer string) error {
			t, err := orggraph.ParseTopology(answer)
			if err != nil {
				return errInvalid
			}
			plan.Topology = t
			return nil
		})
	if err != nil {
		return plan, err
	}

	decisions := []struct {
		question string
		target   *bool
	}{
		{"Would you like a work email addresses created? (y/n):  ", &plan.WorkEmail},
		{"Would you like a phone number created? (y/n):  ", &plan.PhoneNumber},
		{"Would you like a fake credit card created? (y/n):  ", &plan.CreditCard},
		{transactionQuestion(domain.ChannelPhoneCall), &plan.PhoneCalls},
		{transactionQuestion(domain.ChannelEmail), &plan.Emails},
		{transactionQuestion(domain.ChannelMoney), &plan.Money},
	}
	for _, d := range decisions {
		if *d.target, err = p.confirm(ctx, d.question); err != nil {
			return plan, err
		}
	}

	p.logger.Debug("plan collected",
		zap.Int("people", plan.People),
		zap.String("topology", plan.Topology.String()),
	)
	return plan, nil
}

func transactionQuestion(c domain.Channel) string {
	return fmt.Sprintf("Would you like to generate fake %s transactions? (y/n):  ", c)
}

var errInvalid = errors.New("invalid answer")

func (p *Prompter) confirm(ctx context.Context, question string) (bool, error) {
	var yes bool
	err := p.ask(ctx, question, "Invalid selection.  Please enter y or n.", func(answer string) error {
		switch answer {
		case "y":
			yes = true
		case "n":
			yes = false
		default:
			return errInvalid
		}
		return nil
	})
	return yes, err
}

// ask repeats question until accept takes the answer or attempts run out.
func (p *Prompter) ask(ctx context.Context, question, hint string, accept func(string) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(p.out, question)

		line, err := p.in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if err != nil && (!errors.Is(err, io.EOF) || answer == "") {
			if errors.Is(err, io.EOF) {
				return domain.NewError(domain.ErrCodeConfiguration, "input closed before every question was answered")
			}
			return fmt.Errorf("read answer: %w", err)
		}

		if accept(answer) == nil {
			return nil
		}
		p.logger.Debug("rejected answer", zap.String("answer", answer), zap.Int("attempt", i+1))
		fmt.Fprintln(p.out, hint)
	}
	return domain.Errorf(domain.ErrCodeConfiguration, "no valid answer after %d attempts: %s",
		attempts, strings.TrimSpace(question))
}
