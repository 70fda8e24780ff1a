package updater

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"agesync/internal/age"
	"agesync/internal/document"
	"agesync/internal/logs"
	"agesync/internal/records"

	"go.uber.org/multierr"
)

// Stage names a step of the update, used to label errors
type Stage string

const (
	StageReadRecords   Stage = "read records"
	StageReadDocument  Stage = "read document"
	StageCompute       Stage = "compute"
	StageWriteRecords  Stage = "write records"
	StageWriteDocument Stage = "write document"
)

// StageError wraps the error of the stage that failed
type StageError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Entry is one computed age
type Entry struct {
	Category string
	Name     string
	Birth    time.Time
	Age      age.Duration
}

// Missing is a record name with no age line in the document
type Missing struct {
	Name        string
	Suggestions []string
}

// Plan holds everything an update would write
type Plan struct {
	Collection  *records.Collection
	Entries     []Entry
	Original    string
	Document    document.Result
	Timestamp   string
	Missing     []Missing
	Orphans     []string // listed in the document with no record
	GeneratedAt time.Time
}

// Ages returns the name to rendered duration mapping
func (p *Plan) Ages() map[string]string {
	ages := make(map[string]string, len(p.Entries))
	for _, e := range p.Entries {
		ages[e.Name] = e.Age.String()
	}
	return ages
}

// DocumentChanged reports whether applying the plan alters the document
func (p *Plan) DocumentChanged() bool {
	return p.Document.Text != p.Original
}

// Updater recomputes ages and patches the document
type Updater struct {
	DataPath string
	DocPath  string
	Location *time.Location
	Label    string
	Now      func() time.Time
}

func (u *Updater) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

// Plan reads both files and computes the result without writing anything
func (u *Updater) Plan(ctx context.Context) (*Plan, error) {
	logs.Logger.Debugw("reading records", "path", u.DataPath)
	coll, err := records.Load(u.DataPath)
	if err != nil {
		return nil, &StageError{Stage: StageReadRecords, Path: u.DataPath, Err: err}
	}
	logs.Logger.Debugw("read records", "path", u.DataPath, "records", coll.Len())

	if err := ctx.Err(); err != nil {
		return nil, &StageError{Stage: StageReadDocument, Path: u.DocPath, Err: err}
	}

	logs.Logger.Debugw("reading document", "path", u.DocPath)
	raw, err := os.ReadFile(u.DocPath)
	if err != nil {
		return nil, &StageError{Stage: StageReadDocument, Path: u.DocPath, Err: err}
	}
	text := string(raw)

	if err := ctx.Err(); err != nil {
		return nil, &StageError{Stage: StageCompute, Err: err}
	}

	plan, err := Compute(coll, text, u.now(), u.Location, u.Label)
	if err != nil {
		return nil, &StageError{Stage: StageCompute, Err: err}
	}
	return plan, nil
}

// Compute derives every age from coll at now and patches text. coll is
// updated in place.
func Compute(coll *records.Collection, text string, now time.Time, loc *time.Location, label string) (*Plan, error) {
	if err := coll.Validate(); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}

	plan := &Plan{
		Collection:  coll,
		Original:    text,
		GeneratedAt: now,
	}

	err := coll.Each(func(category string, rec *records.Record) error {
		birth, err := age.ParseBirthDate(rec.DateOfBirth, loc)
		if err != nil {
			return err
		}
		d := age.Calculate(birth, now)
		if d.IsZero() && birth.After(now) {
			logs.Logger.Warnw("birth date is in the future", "name", rec.Name, "date_of_birth", rec.DateOfBirth)
		}
		rec.SetAge(d)
		plan.Entries = append(plan.Entries, Entry{
			Category: category,
			Name:     rec.Name,
			Birth:    birth,
			Age:      d,
		})
		logs.Logger.Infow("calculated age", "name", rec.Name, "age", d.String())
		return nil
	})
	if err != nil {
		return nil, err
	}

	plan.Timestamp = document.FormatTimestamp(now, loc, label)
	plan.Document = document.Patch(text, plan.Ages(), plan.Timestamp)
	if !plan.Document.TimestampUpdated {
		logs.Logger.Warnw("no timestamp block found in document")
	}

	listed := document.ListedNames(text)
	for _, name := range plan.Document.Missing {
		m := Missing{Name: name, Suggestions: document.Suggest(name, listed)}
		plan.Missing = append(plan.Missing, m)
		logs.Logger.Warnw("no age line for record", "name", name, "suggestions", m.Suggestions)
	}
	ages := plan.Ages()
	for _, name := range listed {
		if _, ok := ages[name]; !ok {
			plan.Orphans = append(plan.Orphans, name)
		}
	}
	return plan, nil
}

// Apply writes the record file and the document. Each write is attempted
// even if the other fails; failures are combined.
func (u *Updater) Apply(ctx context.Context, plan *Plan) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: StageWriteRecords, Path: u.DataPath, Err: err}
	}

	var errs error
	if err := records.Save(u.DataPath, plan.Collection); err != nil {
		errs = multierr.Append(errs, &StageError{Stage: StageWriteRecords, Path: u.DataPath, Err: err})
	} else {
		logs.Logger.Infow("wrote records", "path", u.DataPath, "records", len(plan.Entries))
	}

	if err := os.WriteFile(u.DocPath, []byte(plan.Document.Text), 0644); err != nil {
		errs = multierr.Append(errs, &StageError{Stage: StageWriteDocument, Path: u.DocPath, Err: err})
	} else {
		logs.Logger.Infow("wrote document", "path", u.DocPath, "changes", len(plan.Document.Changes))
	}
	return errs
}

// Run plans and applies an update
func (u *Updater) Run(ctx context.Context) (*Plan, error) {
	plan, err := u.Plan(ctx)
	if err != nil {
		return nil, err
	}
	return plan, u.Apply(ctx, plan)
}

// Stages returns the stage of every StageError in err
func Stages(err error) []Stage {
	var stages []Stage
	for _, e := range multierr.Errors(err) {
		var se *StageError
		if errors.As(e, &se) {
			stages = append(stages, se.Stage)
		}
	}
	return stages
}
