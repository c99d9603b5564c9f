package cue

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/cuebit/cue/template"
	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/errors"
	"github.com/teranos/cuebit/logger"
	"github.com/teranos/cuebit/sym"
)

// DefaultMaxPageSize bounds list and search pages unless overridden with WithMaxPageSize.
const DefaultMaxPageSize = 200

// Registry is the prompt registry. It holds no state beyond its store handle
// and is safe for concurrent use.
type Registry struct {
	store        Store
	log          *zap.SugaredLogger
	now          func() time.Time
	newID        func() string
	maxPageSize  int
	defaultActor string
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithIDGenerator replaces the random UUID generator used for prompt and example ids.
func WithIDGenerator(newID func() string) Option {
	return func(r *Registry) { r.newID = newID }
}

// WithMaxPageSize sets the largest page List and Search accept.
func WithMaxPageSize(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxPageSize = n
		}
	}
}

// WithDefaultActor sets the actor recorded when a caller supplies none.
func WithDefaultActor(actor string) Option {
	return func(r *Registry) { r.defaultActor = actor }
}

// New creates a Registry over store. A nil log discards all logging.
func New(store Store, log *zap.SugaredLogger, opts ...Option) *Registry {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	r := &Registry{
		store:       store,
		log:         log,
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
		maxPageSize: DefaultMaxPageSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// opLogger returns the registry logger tagged with the operation and any
// request fields carried by ctx.
func (r *Registry) opLogger(ctx context.Context, op string) *zap.SugaredLogger {
	fields := append([]interface{}{logger.FieldOperation, op, logger.FieldSymbol, sym.Prompt}, logger.FieldsFromContext(ctx)...)
	return r.log.With(fields...)
}

func (r *Registry) timestamp() time.Time {
	return r.now().UTC()
}

func (r *Registry) actor(given string) string {
	if given = strings.TrimSpace(given); given != "" {
		return given
	}
	return r.defaultActor
}

// normalizeProject trims project and maps the reporting label for unassigned
// prompts back to the stored empty value.
func normalizeProject(project string) string {
	project = strings.TrimSpace(project)
	if project == types.UnassignedProject {
		return ""
	}
	return project
}

func checkTemplate(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.NewValidationError("template is required")
	}
	if v := template.Validate(text); !v.IsValid {
		return errors.WithDetail(
			errors.NewValidationError("template has unbalanced braces"),
			strings.Join(v.Warnings, "; "),
		)
	}
	return nil
}

func (r *Registry) newExamples(promptID string, now time.Time, inputs []types.ExampleInput) ([]types.Example, error) {
	examples := make([]types.Example, 0, len(inputs))
	for i, in := range inputs {
		if strings.TrimSpace(in.Input) == "" || strings.TrimSpace(in.Output) == "" {
			return nil, errors.NewValidationError("example %d: input and output are required", i+1)
		}
		examples = append(examples, types.Example{
			ID:          r.newID(),
			PromptID:    promptID,
			Input:       in.Input,
			Output:      in.Output,
			Description: in.Description,
			CreatedAt:   now,
		})
	}
	return examples, nil
}

// appendVersion inserts p as the next version of its lineage along with its
// examples. It must run inside a write transaction.
func (r *Registry) appendVersion(tx Tx, p *types.Prompt, examples []types.ExampleInput) error {
	max, err := tx.MaxVersion(p.Project, p.Task)
	if err != nil {
		return err
	}

	now := r.timestamp()
	p.PromptID = r.newID()
	p.Version = max + 1
	p.CreatedAt = now
	p.UpdatedAt = now

	exs, err := r.newExamples(p.PromptID, now, examples)
	if err != nil {
		return err
	}
	if err := tx.InsertPrompt(p); err != nil {
		return err
	}
	for i := range exs {
		if err := tx.InsertExample(&exs[i]); err != nil {
			return err
		}
	}
	return nil
}

// Register creates a prompt. It becomes version 1 of a new (project, task)
// lineage, or the next version when the lineage already exists; either way it
// has no parent.
func (r *Registry) Register(ctx context.Context, in types.RegisterInput) (*types.Prompt, error) {
	task := strings.TrimSpace(in.Task)
	if task == "" {
		return nil, errors.NewValidationError("task is required")
	}
	if err := checkTemplate(in.Template); err != nil {
		return nil, err
	}

	p := &types.Prompt{
		Project:   normalizeProject(in.Project),
		Task:      task,
		Template:  in.Template,
		Tags:      types.NewTags(in.Tags...),
		Meta:      in.Meta.Clone(),
		UpdatedBy: r.actor(in.UpdatedBy),
	}

	err := r.store.Write(ctx, func(tx Tx) error {
		return r.appendVersion(tx, p, in.Examples)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "register prompt %s/%s", types.ProjectLabel(p.Project), task)
	}

	r.opLogger(ctx, "register").Debugw("Registered prompt",
		logger.FieldPromptID, p.PromptID,
		logger.FieldProject, p.ProjectLabel(),
		logger.FieldTask, p.Task,
		logger.FieldVersion, p.Version,
	)
	return p, nil
}

// Update creates the next version of the lineage promptID belongs to, derived
// from promptID. Tags and meta carry over unless in overrides them; examples
// do not carry over. Deleted sources may be updated.
func (r *Registry) Update(ctx context.Context, promptID string, in types.UpdateInput) (*types.Prompt, error) {
	if err := checkTemplate(in.Template); err != nil {
		return nil, err
	}

	var p *types.Prompt
	err := r.store.Write(ctx, func(tx Tx) error {
		source, err := tx.GetPrompt(promptID)
		if err != nil {
			return err
		}

		p = &types.Prompt{
			Project:   source.Project,
			Task:      source.Task,
			Template:  in.Template,
			ParentID:  source.PromptID,
			Tags:      source.Tags,
			Meta:      source.Meta.Clone(),
			UpdatedBy: r.actor(in.UpdatedBy),
		}
		if in.Tags != nil {
			p.Tags = types.NewTags(in.Tags...)
		}
		if in.Meta != nil {
			p.Meta = in.Meta.Clone()
		}
		return r.appendVersion(tx, p, in.Examples)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "update prompt %s", promptID)
	}

	r.opLogger(ctx, "update").Debugw("Created prompt version",
		logger.FieldPromptID, p.PromptID,
		logger.FieldParentID, p.ParentID,
		logger.FieldVersion, p.Version,
	)
	return p, nil
}

// Get returns a prompt. Deleted prompts are not found unless includeDeleted is set.
func (r *Registry) Get(ctx context.Context, promptID string, includeDeleted bool) (*types.Prompt, error) {
	var p *types.Prompt
	err := r.store.Read(ctx, func(tx Tx) error {
		var err error
		p, err = getVisible(tx, promptID, includeDeleted)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func getVisible(tx Tx, promptID string, includeDeleted bool) (*types.Prompt, error) {
	p, err := tx.GetPrompt(promptID)
	if err != nil {
		return nil, err
	}
	if p.Deleted && !includeDeleted {
		return nil, errors.WithHint(
			errors.NewNotFoundError("prompt %s is deleted", promptID),
			"restore it first or include deleted prompts",
		)
	}
	return p, nil
}
