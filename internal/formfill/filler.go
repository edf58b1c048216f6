package formfill

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// FormFiller types fields into a payment form.
type FormFiller interface {
	Fill(ctx context.Context, fields Fields) error
}

// DryRunFiller prints the fields instead of touching a form.
type DryRunFiller struct {
	Out io.Writer
	Log *zap.Logger
}

// Fill writes one line per non-empty field.
func (d DryRunFiller) Fill(ctx context.Context, fields Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.Log != nil {
		d.Log.Info("dry-run form fill", zap.Int("fields", len(fields.Ordered())))
	}
	for _, f := range fields.Ordered() {
		if _, err := fmt.Fprintf(d.Out, "%-12s %s\n", f.Name+":", f.Value); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
