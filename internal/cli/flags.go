package cli

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

func addUserFlag(fs *pflag.FlagSet, target *string) {
	fs.StringVarP(target, "user", "u", "", "User ID to act as (required)")
}

func requireUser(userID string) error {
	if userID == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}

// dateValue is a YYYY-MM-DD flag; the zero value means "today".
type dateValue struct {
	t *time.Time
}

func (d dateValue) String() string {
	if d.t == nil || d.t.IsZero() {
		return ""
	}
	return d.t.Format("2006-01-02")
}

func (d dateValue) Set(s string) error {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("want YYYY-MM-DD")
	}
	*d.t = t
	return nil
}

func (dateValue) Type() string { return "date" }

func addDateFlag(fs *pflag.FlagSet, target *time.Time, name, usage string) {
	fs.Var(dateValue{t: target}, name, usage)
}
