package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

// actor resolves the --as user against the directory.
func (a *App) actor(ctx context.Context) (domain.Actor, error) {
	if a.actorID == "" {
		return domain.Actor{}, fmt.Errorf("no acting user, pass --as <user-id>: %w", domain.ErrAuthorization)
	}
	return a.Users.Resolve(ctx, a.actorID)
}

// amountValue is a pflag.Value parsing rupiah amounts into a decimal.
type amountValue struct {
	d   decimal.Decimal
	set bool
}

var _ pflag.Value = (*amountValue)(nil)

func (v *amountValue) String() string {
	if !v.set {
		return ""
	}
	return v.d.String()
}

func (v *amountValue) Set(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	v.d, v.set = d, true
	return nil
}

func (v *amountValue) Type() string { return "amount" }
