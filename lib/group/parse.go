// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package group

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/knobs/lib/resolve"
	"github.com/bureau-foundation/knobs/lib/value"
)

// Separator divides argument groups on the command line.
const Separator = "--"

// Group is one resolved configuration bundle.
type Group struct {
	CPU  CPU
	I915 I915
	Nvml Nvml
	Rapl Rapl
}

// IsEmpty reports whether the group changes nothing.
func (g Group) IsEmpty() bool {
	return g.CPU.IsEmpty() && g.I915.IsEmpty() && g.Nvml.IsEmpty() && g.Rapl.IsEmpty()
}

// List is the ordered groups of one invocation.
type List []Group

// Split divides argv on every literal separator token. argv[0] is the
// program name and is prepended to each segment, so N separators give
// N+1 segments that each look like a complete argv.
func Split(argv []string) [][]string {
	program := ""
	var rest []string
	if len(argv) > 0 {
		program, rest = argv[0], argv[1:]
	}

	segments := [][]string{{program}}
	for _, arg := range rest {
		if arg == Separator {
			segments = append(segments, []string{program})
			continue
		}
		last := len(segments) - 1
		segments[last] = append(segments[last], arg)
	}
	return segments
}

// ParseList splits argv and parses each segment in order. A failing
// segment aborts with a *GroupError holding its 1-based index. ErrHelp
// is returned unwrapped.
func ParseList(ctx context.Context, inv *resolve.Inventory, argv []string) (List, error) {
	segments := Split(argv)
	list := make(List, 0, len(segments))
	for i, segment := range segments {
		group, err := Parse(ctx, inv, segment)
		if err != nil {
			if errors.Is(err, ErrHelp) {
				return nil, err
			}
			return nil, &GroupError{Index: i + 1, Err: err}
		}
		list = append(list, group)
	}
	return list, nil
}

// Parse parses one segment (program name first) and resolves its
// identifiers against inv. Scalar values are validated before any
// inventory lookup.
func Parse(ctx context.Context, inv *resolve.Inventory, segment []string) (Group, error) {
	name := "knobs"
	var args []string
	if len(segment) > 0 {
		name, args = segment[0], segment[1:]
	}

	flags := newFlagSet(name)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return Group{}, ErrHelp
		}
		return Group{}, &UsageError{Message: err.Error(), Suggestion: suggestFlag(args, flags)}
	}
	if flags.NArg() > 0 {
		return Group{}, &UsageError{Message: fmt.Sprintf("unexpected argument %q", flags.Arg(0))}
	}
	if err := checkRelations(flags); err != nil {
		return Group{}, err
	}

	p := parser{flags: flags}
	group := Group{
		CPU: CPU{
			Online:   parseOptional(&p, flagCPUOn, value.ParseBool),
			Governor: parseOptional(&p, flagCPUGov, parseString),
			Min:      parseOptional(&p, flagCPUMin, value.ParseFrequency),
			Max:      parseOptional(&p, flagCPUMax, value.ParseFrequency),
			EPB:      parseOptional(&p, flagCPUEPB, value.ParseEPB),
			EPP:      parseOptional(&p, flagCPUEPP, parseString),
		},
		I915: I915{
			Min:   parseOptional(&p, flagI915Min, value.ParseFrequency),
			Max:   parseOptional(&p, flagI915Max, value.ParseFrequency),
			Boost: parseOptional(&p, flagI915Boost, value.ParseFrequency),
		},
		Nvml: Nvml{
			GPUMin:     parseOptional(&p, flagNvmlGPUMin, value.ParseFrequency),
			GPUMax:     parseOptional(&p, flagNvmlGPUMax, value.ParseFrequency),
			GPUReset:   p.boolean(flagNvmlGPUReset),
			Power:      parseOptional(&p, flagNvmlPower, value.ParsePower),
			PowerReset: p.boolean(flagNvmlPowerReset),
		},
		Rapl: Rapl{
			Limit:  parseOptional(&p, flagRaplLimit, value.ParsePower),
			Window: parseOptional(&p, flagRaplWindow, value.ParseDuration),
		},
	}
	raplPackage := parseOptional(&p, flagRaplPackage, value.ParseUint)
	raplSubzone := parseOptional(&p, flagRaplSubzone, value.ParseUint)
	raplConstraints := parseOptional(&p, flagRaplConstraint, value.ParseUints)
	if p.err != nil {
		return Group{}, p.err
	}

	var err error
	if raw, ok := p.raw(flagCPU); ok {
		if group.CPU.IDs, err = resolve.ResolveCPUs(ctx, inv, raw); err != nil {
			return Group{}, &FlagError{Flag: flagCPU, Err: err}
		}
	}
	if raw, ok := p.raw(flagI915); ok {
		if group.I915.IDs, err = resolve.ResolveCards(ctx, inv, raw, resolve.I915); err != nil {
			return Group{}, &FlagError{Flag: flagI915, Err: err}
		}
	}
	if raw, ok := p.raw(flagNvml); ok {
		if group.Nvml.IDs, err = resolve.ResolveCards(ctx, inv, raw, resolve.Nvidia); err != nil {
			return Group{}, &FlagError{Flag: flagNvml, Err: err}
		}
	}
	if raplPackage != nil && raplConstraints != nil {
		zone := resolve.PackageZone(*raplPackage)
		if raplSubzone != nil {
			zone = resolve.SubzoneOf(*raplPackage, *raplSubzone)
		}
		constraints, err := resolve.ResolveConstraints(ctx, inv, zone, *raplConstraints)
		if err != nil {
			return Group{}, &FlagError{Flag: flagRaplConstraint, Err: err}
		}
		group.Rapl.Constraints = &constraints
	}
	return group, nil
}

// parser reads raw flag values and keeps the first conversion error.
type parser struct {
	flags *pflag.FlagSet
	err   error
}

func (p *parser) raw(name string) (string, bool) {
	if !p.flags.Changed(name) {
		return "", false
	}
	raw, _ := p.flags.GetString(name)
	return raw, true
}

func (p *parser) boolean(name string) bool {
	set, _ := p.flags.GetBool(name)
	return set
}

// parseOptional returns nil when the flag is absent or an earlier flag
// already failed.
func parseOptional[T any](p *parser, name string, parse func(string) (T, error)) *T {
	raw, ok := p.raw(name)
	if !ok || p.err != nil {
		return nil
	}
	v, err := parse(raw)
	if err != nil {
		p.err = &FlagError{Flag: name, Err: err}
		return nil
	}
	return &v
}

func parseString(s string) (string, error) {
	if s == "" {
		return "", &value.ParseError{Kind: "string", Input: s, Err: value.ErrSyntax}
	}
	return s, nil
}

