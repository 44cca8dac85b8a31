// Package cli implements the terminal form: a line-driven loop where every
// input line is one edit applied to the form session.
//
// Lines:
//
//	cost <text>             set the cost per kilogram or pound
//	circumference <text>    set the circumference in centimeters
//	height <text>           set the height in centimeters
//	metric | imperial       select the unit system
//	unit <metric|imperial>  select the unit system
//	reset                   restore the defaults
//	show                    print the form
//	help                    print this help
//	quit                    leave the form
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/hapkiduki/pumpkin-price/internal/domain/entity"
)

// FormService is the application service the terminal form drives.
type FormService interface {
	Snapshot(ctx context.Context) entity.Snapshot
	UpdateField(ctx context.Context, name, raw string) (entity.Snapshot, error)
	SwitchUnitSystem(ctx context.Context, name string) (entity.Snapshot, error)
	Reset(ctx context.Context) entity.Snapshot
}

// ErrQuit is returned by Handle when the user leaves the form.
var ErrQuit = errors.New("quit")

const helpText = `Commands:
  cost <value>            cost per kg (metric) or lb (imperial)
  circumference <value>   circumference in cm
  height <value>          height in cm
  metric | imperial       select the unit system
  unit <metric|imperial>  select the unit system
  reset                   restore the defaults
  show                    print the form
  help                    print this help
  quit                    leave the form
`

// Form reads edits from an input stream and prints the form after each one.
type Form struct {
	svc    FormService
	out    io.Writer
	prompt string
}

// NewForm creates a terminal form writing to out.
func NewForm(svc FormService, out io.Writer) *Form {
	return &Form{svc: svc, out: out, prompt: "> "}
}

// Run processes lines from in until it is exhausted, the user quits, or ctx
// is cancelled. Each line is applied before the next one is read.
//
// Parameters:
//   - ctx: cancels the loop between lines
//   - in: the input stream
//
// Returns:
//   - error: a read error or ctx.Err(); nil on quit or end of input
func (f *Form) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(f.out, Render(f.svc.Snapshot(ctx)))
	fmt.Fprint(f.out, f.prompt)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := f.Handle(ctx, scanner.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(f.out, "error: %v\n", err)
		}
		fmt.Fprint(f.out, f.prompt)
	}
	return scanner.Err()
}

// Handle applies one line. Blank lines are ignored.
//
// Returns:
//   - error: ErrQuit when the user leaves; a validation error for an unknown
//     command, field or unit system
func (f *Form) Handle(ctx context.Context, line string) error {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	cmd = strings.ToLower(cmd)
	arg = strings.TrimSpace(arg)

	var (
		snap entity.Snapshot
		err  error
	)
	switch cmd {
	case "":
		return nil
	case "quit", "exit":
		return ErrQuit
	case "help", "?":
		fmt.Fprint(f.out, helpText)
		return nil
	case "show":
		snap = f.svc.Snapshot(ctx)
	case "reset":
		snap = f.svc.Reset(ctx)
	case "metric", "imperial":
		snap, err = f.svc.SwitchUnitSystem(ctx, cmd)
	case "unit", "units":
		snap, err = f.svc.SwitchUnitSystem(ctx, arg)
	default:
		snap, err = f.svc.UpdateField(ctx, cmd, arg)
		if errors.Is(err, entity.ErrUnknownField) {
			return fmt.Errorf("unknown command %q (type help)", cmd)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(f.out, Render(snap))
	return nil
}

// Render formats a snapshot as a single form line, e.g.
//
//	[metric] cost 0.60 ¢/kg | circumference 80 cm | height 20 cm | price $3.41 (5.69 kg)
func Render(snap entity.Snapshot) string {
	in := snap.Input
	unit := in.UnitSystem

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] cost %s %s | circumference %s cm | height %s cm | ",
		unit,
		formatValue(in.CostPerUnit, 2),
		unit.CostLabel(),
		formatValue(in.Circumference, -1),
		formatValue(in.Height, -1),
	)
	if snap.Display.Visible() {
		fmt.Fprintf(&b, "price %s (%.2f %s)", snap.Display.String(), snap.Display.Weight, unit.WeightUnit())
	} else {
		b.WriteString("price -")
	}
	return b.String()
}

// formatValue renders an input value; NaN is shown as "?".
func formatValue(v float64, prec int) string {
	if math.IsNaN(v) {
		return "?"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
