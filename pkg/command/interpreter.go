package command

import (
	"sort"
	"strings"

	"github.com/stellaroneai/swara/pkg/language"
)

// Rule maps keyword groups to one command. Any keyword matching as a
// substring of the normalized transcript fires the rule.
type Rule struct {
	Kind     Kind
	Target   string
	Keywords []string
}

// Table is an ordered rule list for one language.
type Table []Rule

// Interpreter classifies transcripts with per-language rule tables.
// It is immutable; WithRules returns a modified copy.
type Interpreter struct {
	common Table
	tables map[language.Tag]Table
	order  []language.Tag
	deflt  language.Tag
	subs   []substitution
}

type substitution struct{ from, to string }

// NewInterpreter creates an interpreter with the built-in rule tables.
func NewInterpreter() *Interpreter {
	in := &Interpreter{
		common: normalizeTable(commonRules),
		tables: make(map[language.Tag]Table, len(builtinRules)),
		order:  append([]language.Tag(nil), builtinOrder...),
		deflt:  language.DefaultTag,
	}
	for tag, table := range builtinRules {
		in.tables[tag] = normalizeTable(table)
	}
	return in
}

// Rules returns a copy of the table registered for tag.
func (in *Interpreter) Rules(tag language.Tag) Table {
	table := in.tables[normalizeTag(tag)]
	out := make(Table, len(table))
	copy(out, table)
	return out
}

// WithRules returns an interpreter whose table for tag is extended with
// table. Rules for a new language are walked after the built-in ones.
func (in *Interpreter) WithRules(tag language.Tag, table Table) *Interpreter {
	tag = normalizeTag(tag)
	next := &Interpreter{
		common: in.common,
		tables: make(map[language.Tag]Table, len(in.tables)+1),
		order:  append([]language.Tag(nil), in.order...),
		deflt:  in.deflt,
		subs:   in.subs,
	}
	for k, v := range in.tables {
		next.tables[k] = v
	}
	if _, ok := next.tables[tag]; !ok {
		next.order = append(next.order, tag)
	}
	merged := append(Table(nil), normalizeTable(table)...)
	merged = append(merged, next.tables[tag]...)
	next.tables[tag] = merged
	return next
}

// WithReplacements returns an interpreter that rewrites phrases of the
// normalized transcript before matching, e.g. frequent recognizer mishearings.
// Longer phrases are replaced first.
func (in *Interpreter) WithReplacements(replacements map[string]string) *Interpreter {
	next := *in
	next.subs = append([]substitution(nil), in.subs...)
	for from, to := range replacements {
		from = Normalize(from)
		if from == "" {
			continue
		}
		next.subs = append(next.subs, substitution{from: from, to: Normalize(to)})
	}
	sort.SliceStable(next.subs, func(i, j int) bool {
		if len(next.subs[i].from) != len(next.subs[j].from) {
			return len(next.subs[i].from) > len(next.subs[j].from)
		}
		return next.subs[i].from < next.subs[j].from
	})
	return &next
}

func (in *Interpreter) substitute(text string) string {
	if len(in.subs) == 0 {
		return text
	}
	padded := " " + text + " "
	for _, s := range in.subs {
		padded = strings.ReplaceAll(padded, " "+s.from+" ", " "+s.to+" ")
	}
	return strings.Join(strings.Fields(padded), " ")
}

// Interpret classifies transcript spoken in tag. Emergency rules win over
// navigation rules in every language; anything unmatched is a Query carrying
// the original transcript.
func (in *Interpreter) Interpret(transcript string, tag language.Tag) Command {
	text := in.substitute(Normalize(transcript))
	if text == "" {
		return Command{Kind: KindQuery, Text: transcript}
	}
	walk := in.walk(normalizeTag(tag))
	for _, kind := range []Kind{KindEmergency, KindNavigate} {
		for _, table := range walk {
			for _, rule := range table {
				if rule.Kind != kind {
					continue
				}
				for _, kw := range rule.Keywords {
					if strings.Contains(text, kw) {
						return Command{Kind: rule.Kind, Target: rule.Target, Text: transcript, Keyword: kw}
					}
				}
			}
		}
	}
	return Command{Kind: KindQuery, Text: transcript}
}

// walk lists tables in match order: the active language, the default table,
// then every other language in fixed order.
func (in *Interpreter) walk(active language.Tag) []Table {
	out := make([]Table, 0, len(in.order)+1)
	if active != in.deflt {
		if t, ok := in.tables[active]; ok {
			out = append(out, t)
		}
	}
	def := append(Table(nil), in.common...)
	def = append(def, in.tables[in.deflt]...)
	out = append(out, def)
	for _, tag := range in.order {
		if tag == active || tag == in.deflt {
			continue
		}
		out = append(out, in.tables[tag])
	}
	return out
}

func normalizeTable(table Table) Table {
	out := make(Table, 0, len(table))
	for _, r := range table {
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if n := Normalize(kw); n != "" {
				kws = append(kws, n)
			}
		}
		out = append(out, Rule{Kind: r.Kind, Target: r.Target, Keywords: kws})
	}
	return out
}

func normalizeTag(t language.Tag) language.Tag {
	return language.Tag(strings.ToLower(strings.TrimSpace(string(t))))
}
