package classify

import (
	"cmp"
	"context"
	"encoding/csv"
	"fmt"
	"slices"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/actup/pkg/policy"
	"github.com/suzuki-shunsuke/actup/pkg/store"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

// Eligible returns the outdated mentions that may be remediated, ordered by repository stars ascending.
func (c *Controller) Eligible(ctx context.Context, logE *logrus.Entry) ([]*store.Mention, error) {
	mentions, err := c.store.OutdatedMentions(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	exclusions, err := c.store.Exclusions(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return FilterEligible(logE, mentions, exclusions, c.policy), nil
}

// FilterEligible drops mentions that aren't outdated, belong to excluded or denied repositories,
// or reference denied actions.
func FilterEligible(logE *logrus.Entry, mentions []*store.Mention, exclusions map[string]struct{}, pol *policy.Policy) []*store.Mention {
	eligible := make([]*store.Mention, 0, len(mentions))
	for _, m := range mentions {
		if !m.IsOutdated {
			continue
		}
		if _, ok := exclusions[m.RepoFullName]; ok {
			continue
		}
		if denied(logE, m, pol) {
			continue
		}
		eligible = append(eligible, m)
	}
	slices.SortStableFunc(eligible, func(a, b *store.Mention) int {
		return cmp.Or(
			cmp.Compare(a.Stars, b.Stars),
			cmp.Compare(a.RepoFullName, b.RepoFullName),
			cmp.Compare(a.FilePath, b.FilePath),
			cmp.Compare(a.LineNumber, b.LineNumber),
		)
	})
	return eligible
}

func denied(logE *logrus.Entry, m *store.Mention, pol *policy.Policy) bool {
	logE = logE.WithFields(logrus.Fields{
		"repo":   m.RepoFullName,
		"action": m.Action,
	})
	rule, err := pol.DenyRepo(m.RepoFullName)
	if err != nil {
		logerr.WithError(logE, err).Warn("match a repository with the denylist")
		return true
	}
	if rule != nil {
		logE.WithField("reason", rule.Reason).Debug("the repository is denied")
		return true
	}
	rule, err = pol.DenyAction(m.Action)
	if err != nil {
		logerr.WithError(logE, err).Warn("match an action with the denylist")
		return true
	}
	if rule != nil {
		logE.WithField("reason", rule.Reason).Debug("the action is denied")
		return true
	}
	return false
}

// ListOutdated writes the eligible mentions as CSV.
func (c *Controller) ListOutdated(ctx context.Context, logE *logrus.Entry) error {
	mentions, err := c.Eligible(ctx, logE)
	if err != nil {
		return err
	}
	w := csv.NewWriter(c.stdout)
	if err := w.Write([]string{"repo", "file", "line", "action", "detected", "latest"}); err != nil {
		return fmt.Errorf("write a CSV header: %w", err)
	}
	for _, m := range mentions {
		if err := w.Write([]string{
			m.RepoFullName, m.FilePath, strconv.Itoa(m.LineNumber), m.Action, m.DetectedVersion, m.LatestVersion,
		}); err != nil {
			return fmt.Errorf("write a CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	return nil
}
