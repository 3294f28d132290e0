package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Policy carries the behavior knobs that product kept changing between
// releases. It lives in policy.yml and reloads without a restart.
type Policy struct {
	// Proposal statuses that block a new request/invitation for the same
	// position. "in_progress" is the minimum; adding "rejected" or
	// "accepted" makes a terminal proposal block resubmission too.
	BlockingStatuses []string `mapstructure:"blockingStatuses"`

	// Who may see a draft project: "owner" (creator and owner) or "none".
	DraftVisibility string `mapstructure:"draftVisibility"`
}

func DefaultPolicy() Policy {
	return Policy{
		BlockingStatuses: []string{"in_progress"},
		DraftVisibility:  "owner",
	}
}

// PolicyHolder hands out the current policy and hot-reloads it when
// policy.yml changes.
type PolicyHolder struct {
	current atomic.Value // holds Policy
}

func NewPolicyHolder(log *zap.Logger) (*PolicyHolder, error) {
	log = log.Named("policy")
	v := viper.New()

	v.SetConfigName("policy")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/codepet")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CODEPET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPolicy()
		v.SetDefault("policy.blockingStatuses", defaults.BlockingStatuses)
		v.SetDefault("policy.draftVisibility", defaults.DraftVisibility)
	}

	var p Policy
	if err := v.UnmarshalKey("policy", &p); err != nil {
		return nil, err
	}
	if err := validatePolicy(p); err != nil {
		return nil, err
	}

	holder := &PolicyHolder{}
	holder.current.Store(p)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated Policy
		if err := v.UnmarshalKey("policy", &updated); err != nil {
			log.Warn("policy reload failed", zap.Error(err))
			return
		}
		if err := validatePolicy(updated); err != nil {
			log.Warn("invalid policy config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("policy reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// NewStaticPolicyHolder is for tests and wiring that needs a fixed policy.
func NewStaticPolicyHolder(p Policy) *PolicyHolder {
	holder := &PolicyHolder{}
	holder.current.Store(p)
	return holder
}

func (h *PolicyHolder) Current() Policy {
	return h.current.Load().(Policy)
}

func validatePolicy(p Policy) error {
	if len(p.BlockingStatuses) == 0 {
		return errors.New("policy.blockingStatuses cannot be empty")
	}
	for _, s := range p.BlockingStatuses {
		switch s {
		case "in_progress", "accepted", "rejected":
		default:
			return errors.New("policy.blockingStatuses: unknown status " + s)
		}
	}
	switch p.DraftVisibility {
	case "owner", "none":
	default:
		return errors.New("policy.draftVisibility must be owner or none")
	}
	return nil
}
