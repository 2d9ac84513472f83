// Package store persists the release catalog, the tag index, classified mentions,
// the exclusion ledger and pull request records with gorm.
// SQLite and PostgreSQL are supported.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	batchSize      = 200
)

type Store struct {
	db *gorm.DB
}

// Open connects to the database. Call Close when the store is no longer used.
func Open(logE *logrus.Entry, driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, errors.New("unsupported database driver: " + driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger: gormLogger.New(logE, gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to the database: %w", err)
	}
	if driver == DriverSQLite {
		// :memory: databases are per connection
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get the database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get the database handle: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close the database: %w", err)
	}
	return nil
}

// Migrate creates or updates the tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(
		&Action{},
		&ActionTag{},
		&Repository{},
		&UsedAction{},
		&Mention{},
		&Exclusion{},
		&PullRequest{},
	); err != nil {
		return fmt.Errorf("migrate tables: %w", err)
	}
	return nil
}

func upsert[T any](ctx context.Context, db *gorm.DB, rows []*T, keys []string, columns []string) error {
	if len(rows) == 0 {
		return nil
	}
	cols := make([]clause.Column, len(keys))
	for i, k := range keys {
		cols[i] = clause.Column{Name: k}
	}
	onConflict := clause.OnConflict{Columns: cols, DoNothing: true}
	if len(columns) > 0 {
		onConflict = clause.OnConflict{Columns: cols, DoUpdates: clause.AssignmentColumns(columns)}
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(onConflict).CreateInBatches(rows, batchSize).Error
	})
}

func (s *Store) UpsertActions(ctx context.Context, actions []*Action) error {
	if err := upsert(ctx, s.db, actions, []string{"name"}, []string{
		"owner", "repo", "stars", "latest_version", "latest_major_version", "latest_commit_sha", "checked_at",
	}); err != nil {
		return fmt.Errorf("upsert actions: %w", err)
	}
	return nil
}

// Actions returns the catalog ordered by stars descending.
func (s *Store) Actions(ctx context.Context) ([]*Action, error) {
	var actions []*Action
	if err := s.db.WithContext(ctx).Order("stars DESC").Order("name").Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	return actions, nil
}

func (s *Store) HasActionTags(ctx context.Context, action string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&ActionTag{}).Where("action = ?", action).Limit(1).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count tags of an action: %w", err)
	}
	return count > 0, nil
}

func (s *Store) UpsertActionTags(ctx context.Context, tags []*ActionTag) error {
	if err := upsert(ctx, s.db, tags, []string{"action", "tag"}, []string{"commit_sha"}); err != nil {
		return fmt.Errorf("upsert action tags: %w", err)
	}
	return nil
}

func (s *Store) ActionTags(ctx context.Context) ([]*ActionTag, error) {
	var tags []*ActionTag
	if err := s.db.WithContext(ctx).Order("action").Order("tag").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list action tags: %w", err)
	}
	return tags, nil
}

func (s *Store) UpsertRepositories(ctx context.Context, repos []*Repository) error {
	if err := upsert(ctx, s.db, repos, []string{"full_name"}, []string{
		"clone_url", "stars", "archived", "fork", "checked_at",
	}); err != nil {
		return fmt.Errorf("upsert repositories: %w", err)
	}
	return nil
}

// Repositories returns the known repositories ordered by stars descending.
func (s *Store) Repositories(ctx context.Context) ([]*Repository, error) {
	var repos []*Repository
	if err := s.db.WithContext(ctx).Order("stars DESC").Order("full_name").Find(&repos).Error; err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}
	return repos, nil
}

// ReplaceUsedActions replaces every usage record with rows.
func (s *Store) ReplaceUsedActions(ctx context.Context, rows []*UsedAction) error {
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&UsedAction{}).Error; err != nil {
			return fmt.Errorf("delete usage records: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, batchSize).Error; err != nil {
			return fmt.Errorf("insert usage records: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("replace usage records: %w", err)
	}
	return nil
}

func (s *Store) UsedActions(ctx context.Context) ([]*UsedAction, error) {
	var rows []*UsedAction
	if err := s.db.WithContext(ctx).Order("repo_full_name").Order("file_path").Order("line_number").Order("action_name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list usage records: %w", err)
	}
	return rows, nil
}

func (s *Store) UpsertMentions(ctx context.Context, mentions []*Mention) error {
	if err := upsert(ctx, s.db, mentions, []string{"repo_full_name", "file_path", "line_number"}, []string{
		"action", "detected_version", "latest_version", "is_outdated", "stars", "commit_sha",
	}); err != nil {
		return fmt.Errorf("upsert mentions: %w", err)
	}
	return nil
}

// OutdatedMentions returns outdated mentions ordered by stars ascending.
func (s *Store) OutdatedMentions(ctx context.Context) ([]*Mention, error) {
	var mentions []*Mention
	if err := s.db.WithContext(ctx).
		Where("is_outdated = ?", true).
		Order("stars").Order("repo_full_name").Order("file_path").Order("line_number").
		Find(&mentions).Error; err != nil {
		return nil, fmt.Errorf("list outdated mentions: %w", err)
	}
	return mentions, nil
}

// Exclude adds a repository to the exclusion ledger. Excluding a repository twice is a no-op.
func (s *Store) Exclude(ctx context.Context, repoFullName string) error {
	if err := upsert(ctx, s.db, []*Exclusion{{RepoFullName: repoFullName}}, []string{"repo_full_name"}, nil); err != nil {
		return fmt.Errorf("add a repository to the exclusion ledger: %w", err)
	}
	return nil
}

// Exclusions returns the set of excluded repositories.
func (s *Store) Exclusions(ctx context.Context) (map[string]struct{}, error) {
	var rows []*Exclusion
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list exclusions: %w", err)
	}
	m := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		m[row.RepoFullName] = struct{}{}
	}
	return m, nil
}

func (s *Store) UpsertPullRequest(ctx context.Context, pr *PullRequest) error {
	if err := upsert(ctx, s.db, []*PullRequest{pr}, []string{"pr_url"}, []string{
		"repo_full_name", "branch_name", "status",
	}); err != nil {
		return fmt.Errorf("upsert a pull request: %w", err)
	}
	return nil
}

func (s *Store) PullRequests(ctx context.Context) ([]*PullRequest, error) {
	var prs []*PullRequest
	if err := s.db.WithContext(ctx).Order("created_at").Order("pr_url").Find(&prs).Error; err != nil {
		return nil, fmt.Errorf("list pull requests: %w", err)
	}
	return prs, nil
}
