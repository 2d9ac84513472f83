package workflow

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

type JobKind int

const (
	JobOther JobKind = iota
	JobReusableWorkflowCall
	JobSteps
)

type StepKind int

const (
	StepOther StepKind = iota
	StepWithUses
)

type Job struct {
	Name  string
	Kind  JobKind
	Uses  string
	Steps []*Step
}

type Step struct {
	Kind StepKind
	Uses string
}

// Workflow is the part of a workflow file needed to find action references.
type Workflow struct {
	Jobs []*Job
}

// Targets returns the uses values of reusable workflow calls and steps in document order.
func (w *Workflow) Targets() []string {
	var targets []string
	for _, job := range w.Jobs {
		switch job.Kind {
		case JobReusableWorkflowCall:
			targets = append(targets, job.Uses)
		case JobSteps:
			for _, step := range job.Steps {
				if step.Kind == StepWithUses {
					targets = append(targets, step.Uses)
				}
			}
		case JobOther:
		}
	}
	return targets
}

// Decode parses content as a workflow.
// It returns nil without an error if the document isn't a workflow, i.e. it has no jobs mapping.
func Decode(content []byte) (*Workflow, error) {
	var doc any
	if err := yaml.UnmarshalWithOptions(content, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("parse a workflow file as YAML: %w", err)
	}
	root, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, nil
	}
	jobs, ok := lookup(root, "jobs").(yaml.MapSlice)
	if !ok {
		return nil, nil
	}
	wf := &Workflow{Jobs: make([]*Job, 0, len(jobs))}
	for _, item := range jobs {
		name, _ := item.Key.(string)
		job := decodeJob(item.Value)
		job.Name = name
		wf.Jobs = append(wf.Jobs, job)
	}
	return wf, nil
}

func lookup(m yaml.MapSlice, key string) any {
	for _, item := range m {
		if k, ok := item.Key.(string); ok && k == key {
			return item.Value
		}
	}
	return nil
}

func decodeJob(v any) *Job {
	m, ok := v.(yaml.MapSlice)
	if !ok {
		return &Job{Kind: JobOther}
	}
	if uses, ok := lookup(m, "uses").(string); ok && uses != "" {
		return &Job{Kind: JobReusableWorkflowCall, Uses: uses}
	}
	steps, ok := lookup(m, "steps").([]any)
	if !ok {
		return &Job{Kind: JobOther}
	}
	job := &Job{Kind: JobSteps, Steps: make([]*Step, 0, len(steps))}
	for _, s := range steps {
		job.Steps = append(job.Steps, decodeStep(s))
	}
	return job
}

func decodeStep(v any) *Step {
	m, ok := v.(yaml.MapSlice)
	if !ok {
		return &Step{Kind: StepOther}
	}
	uses, ok := lookup(m, "uses").(string)
	if !ok || uses == "" {
		return &Step{Kind: StepOther}
	}
	return &Step{Kind: StepWithUses, Uses: uses}
}
