// Package job loads declarative merge jobs.
//
// A job names a pattern, its input files and where to write the merged
// output. Jobs are written in YAML or CUE:
//
//	# merge.yaml
//	pattern: "0(12){3}"
//	inputs: [header.txt, left.txt, right.txt]
//	output: merged.txt
//
//	// merge.cue
//	job: {
//		pattern: "0(12)*"
//		inputs: ["header.txt", "left.txt", "right.txt"]
//		split: "lines"
//	}
//
// Relative input and output paths are resolved against the job file's
// directory.
package job

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/imex/internal/imex"
	"github.com/roach88/imex/internal/pattern"
	"github.com/roach88/imex/internal/source"
)

// Job is a declarative merge.
type Job struct {
	// Name labels the job in logs and run history. Defaults to the file name.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Pattern is the interleave pattern.
	Pattern string `yaml:"pattern" json:"pattern"`

	// Inputs lists the stream files; index i is stream i.
	Inputs []string `yaml:"inputs" json:"inputs"`

	// Output is the destination file. Empty means standard output.
	Output string `yaml:"output,omitempty" json:"output,omitempty"`

	// Split is "lines" (default) or "chars".
	Split string `yaml:"split,omitempty" json:"split,omitempty"`

	// Normalize applies Unicode NFC normalization to every item.
	Normalize bool `yaml:"normalize,omitempty" json:"normalize,omitempty"`
}

// Format identifies a job file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatOf returns the job format implied by a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("unsupported job file %q: want .yaml, .yml or .cue", path)
	}
}

// Load reads, decodes and validates a job file.
func Load(path string) (*Job, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job: %w", err)
	}

	j, err := Decode(data, format, path)
	if err != nil {
		return nil, err
	}
	if j.Name == "" {
		j.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	j.resolve(filepath.Dir(path))

	if err := j.Validate(); err != nil {
		return nil, err
	}
	return j, nil
}

// Decode parses job data without validating it. filename is used in CUE
// error positions only.
func Decode(data []byte, format Format, filename string) (*Job, error) {
	var j Job
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&j); err != nil {
			return nil, fmt.Errorf("decode yaml job: %w", err)
		}

	case FormatCUE:
		v := cuecontext.New().CompileBytes(data, cue.Filename(filename))
		if err := v.Err(); err != nil {
			return nil, fmt.Errorf("compile cue job: %s", cueerrors.Details(err, nil))
		}
		if nested := v.LookupPath(cue.ParsePath("job")); nested.Exists() {
			v = nested
		}
		if err := v.Validate(cue.Concrete(true)); err != nil {
			return nil, fmt.Errorf("cue job is not concrete: %s", cueerrors.Details(err, nil))
		}
		if err := v.Decode(&j); err != nil {
			return nil, fmt.Errorf("decode cue job: %w", err)
		}

	default:
		return nil, fmt.Errorf("unknown job format %q", format)
	}
	return &j, nil
}

// resolve makes relative paths relative to dir.
func (j *Job) resolve(dir string) {
	for i, in := range j.Inputs {
		if in != "-" && !filepath.IsAbs(in) {
			j.Inputs[i] = filepath.Join(dir, in)
		}
	}
	if j.Output != "" && j.Output != "-" && !filepath.IsAbs(j.Output) {
		j.Output = filepath.Join(dir, j.Output)
	}
}

// Validate checks the job is runnable: the pattern parses, every stream it
// references has an input, and the split mode is known.
func (j *Job) Validate() error {
	_, err := j.Compile()
	return err
}

// Compile validates the job and returns its parsed pattern.
func (j *Job) Compile() (*imex.Quantified, error) {
	root, err := pattern.Parse(j.Pattern)
	if err != nil {
		return nil, &ValidationError{Field: "pattern", Message: err.Error(), Err: err}
	}
	if _, err := source.ParseSplit(j.Split); err != nil {
		return nil, &ValidationError{Field: "split", Message: err.Error(), Err: err}
	}
	if highest := pattern.MaxStream(root); highest >= len(j.Inputs) {
		return nil, &ValidationError{
			Field:   "inputs",
			Message: fmt.Sprintf("pattern references stream %d but only %d inputs listed", highest, len(j.Inputs)),
		}
	}
	return root, nil
}

// SplitMode returns the job's split mode, defaulting to lines.
func (j *Job) SplitMode() source.Split {
	s, err := source.ParseSplit(j.Split)
	if err != nil {
		return source.SplitLines
	}
	return s
}

// ValidationError reports an unusable job field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid job %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
