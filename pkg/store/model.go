package store

import "time"

// Action is a tracked action and its latest release.
type Action struct {
	Name               string `gorm:"primaryKey"`
	Owner              string
	Repo               string
	Stars              int
	LatestVersion      string
	LatestMajorVersion *string
	LatestCommitSHA    *string
	CheckedAt          time.Time
}

func (Action) TableName() string { return "actions" }

// ActionTag maps a tag of an action to a commit.
// Any row for an action means that its tags were already resolved.
type ActionTag struct {
	Action    string `gorm:"primaryKey"`
	Tag       string `gorm:"primaryKey"`
	CommitSHA string
}

func (ActionTag) TableName() string { return "action_tags" }

type Repository struct {
	FullName  string `gorm:"primaryKey"`
	CloneURL  string
	Stars     int
	Archived  bool
	Fork      bool
	CheckedAt time.Time
}

func (Repository) TableName() string { return "repositories" }

// UsedAction is a record of a usage batch loaded by scan-repos.
type UsedAction struct {
	RepoFullName  string `gorm:"primaryKey"`
	FilePath      string `gorm:"primaryKey"`
	LineNumber    int    `gorm:"primaryKey;autoIncrement:false"`
	ActionName    string `gorm:"primaryKey"`
	ActionRaw     string
	ActionVersion string
}

func (UsedAction) TableName() string { return "used_actions" }

// Mention is a classified action reference.
type Mention struct {
	RepoFullName    string `gorm:"primaryKey"`
	FilePath        string `gorm:"primaryKey"`
	LineNumber      int    `gorm:"primaryKey;autoIncrement:false"`
	Action          string
	DetectedVersion string
	LatestVersion   string
	IsOutdated      bool
	Stars           int
	CommitSHA       *string
}

func (Mention) TableName() string { return "action_mentions" }

// Exclusion marks a repository that must not be remediated again.
type Exclusion struct {
	RepoFullName string `gorm:"primaryKey"`
	CreatedAt    time.Time
}

func (Exclusion) TableName() string { return "pr_exclusions" }

type PullRequest struct {
	URL          string `gorm:"primaryKey;column:pr_url"`
	RepoFullName string
	BranchName   string
	CreatedAt    time.Time
	Status       string
}

func (PullRequest) TableName() string { return "pull_requests" }
