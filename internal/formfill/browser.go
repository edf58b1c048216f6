package formfill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// ErrNoCardField is returned when the page has no recognizable card number input.
var ErrNoCardField = errors.New("could not find card number field")

// DefaultSelectors lists CSS selectors tried in order for each field.
var DefaultSelectors = map[string][]string{
	FieldCardNumber: {
		"#cardNumber", "[name=cardNumber]",
		"#card-number", "[name=card-number]",
		"#card", "[name=card]",
		"input[type=text][placeholder*=card]", "input[placeholder*=number]",
		"input[class*=card]", "input[class*=number]",
	},
	FieldExpiry: {"[name=expiry]", "#expiry", "[name=exp]", "#exp", "[name=expDate]", "#expDate", "[name=expiration]", "#expiration"},
	FieldCVV:    {"[name=cvv]", "#cvv", "[name=cvc]", "#cvc", "[name=security]", "#security", "[name=securityCode]", "#securityCode"},
	FieldHolder: {"[name=name]", "#name", "[name=cardholder]", "#cardholder", "[name=holder]", "#holder", "[name=cardholderName]", "#cardholderName"},
	FieldZip:    {"[name=zip]", "#zip", "[name=postal]", "#postal", "[name=postalCode]", "#postalCode", "[name=zipCode]", "#zipCode"},
}

// BrowserFiller opens the payment page in Chromium and types the fields.
// A headed browser is left open for manual review and submission.
type BrowserFiller struct {
	URL       string
	Headless  bool
	Wait      time.Duration
	Selectors map[string][]string
	Log       *zap.Logger
}

// Fill launches a browser, navigates to URL and fills every field it can locate.
// Only a missing card number input is an error.
func (b *BrowserFiller) Fill(ctx context.Context, fields Fields) error {
	if b.URL == "" {
		return errors.New("form URL is empty")
	}
	log := b.Log
	if log == nil {
		log = zap.NewNop()
	}
	selectors := b.Selectors
	if selectors == nil {
		selectors = DefaultSelectors
	}

	l := launcher.New().Context(ctx).Headless(b.Headless).Leakless(b.Headless)
	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("failed to connect to browser: %w", err)
	}
	if b.Headless {
		defer func() {
			_ = browser.Close()
			l.Cleanup()
		}()
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: b.URL})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", b.URL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", b.URL, err)
	}
	if err := sleep(ctx, b.Wait); err != nil {
		return err
	}

	for _, f := range fields.Ordered() {
		el, err := locate(page, selectors[f.Name])
		if err != nil {
			return fmt.Errorf("failed to query %s field: %w", f.Name, err)
		}
		if el == nil {
			if f.Name == FieldCardNumber {
				return ErrNoCardField
			}
			log.Warn("form field not found", zap.String("field", f.Name))
			continue
		}
		if err := el.SelectAllText(); err != nil {
			log.Debug("select text failed", zap.String("field", f.Name), zap.Error(err))
		}
		if err := el.Input(f.Value); err != nil {
			return fmt.Errorf("failed to type %s: %w", f.Name, err)
		}
		log.Info("form field filled", zap.String("field", f.Name))
	}
	return nil
}

// locate returns the first element matching any selector without waiting.
func locate(page *rod.Page, selectors []string) (*rod.Element, error) {
	for _, sel := range selectors {
		ok, el, err := page.Has(sel)
		if err != nil {
			return nil, err
		}
		if ok {
			return el, nil
		}
	}
	return nil, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
