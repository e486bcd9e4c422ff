package linkage

import "go.uber.org/zap"

// cascade lists the narrowing tiers in priority order. Within a tier the
// first tag with any carrier wins.
var cascade = [][]FilterTag{
	{TagFirstname, TagFirstnamePartial, TagFirstMiddleName},
	{TagMiddlename, TagMiddleInitial},
	{TagCityState, TagState, TagCity},
}

// refinement breaks ties among candidates with the same filter count.
var refinement = []FilterTag{
	TagCityState, TagState, TagCity,
	TagFullSpecialty, TagSpecialty, TagSubspecialty,
}

// Resolver runs the match pipeline for one person at a time. A Resolver is
// safe for concurrent use; all per-person state lives in the candidates.
type Resolver struct {
	index *Index
	bank  *Bank
	log   *zap.SugaredLogger
}

// NewResolver returns a resolver over ix. A nil logger disables logging.
func NewResolver(ix *Index, bank *Bank, log *zap.SugaredLogger) *Resolver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Resolver{index: ix, bank: bank, log: log}
}

// Resolve decides which payment profile, if any, belongs to person.
func (r *Resolver) Resolve(person *ConflictedPerson) Outcome {
	out := Outcome{Person: person, State: StateInitial}

	cands := Assemble(person, r.index)
	if len(cands) == 0 {
		out.State = StateUnmatched
		out.Reason = NoLastName
		r.log.Debugw("no last name match", "provider_pk", person.ProviderPK, "last_name", person.LastName)
		return out
	}
	out.State = StateLastnameMatched

	for _, c := range cands {
		r.bank.Apply(c)
	}
	cands = Dedupe(cands)
	out.NumCandidates = len(cands)

	working := cands
	for _, tier := range cascade {
		next, ok := narrow(working, tier)
		if !ok {
			break
		}
		working = next
	}
	out.State = StateCascaded

	tied := maxFilters(working)
	if len(tied) == 1 {
		return r.commit(out, tied[0])
	}

	out.State = StateAmbiguous
	narrowed := tied
	for _, tag := range refinement {
		sub := withTag(narrowed, tag)
		if len(sub) == 1 {
			return r.commit(out, sub[0])
		}
		if len(sub) > 1 {
			narrowed = sub
		}
	}

	out.State = StateUnmatched
	out.Reason = Unfilterable
	out.Best = tied[0].Filters.Clone()
	out.Options = tied
	r.log.Debugw("unfilterable",
		"provider_pk", person.ProviderPK,
		"candidates", out.NumCandidates,
		"tied", len(tied),
		"filters", out.Best.String(),
	)
	return out
}

func (r *Resolver) commit(out Outcome, c *Candidate) Outcome {
	out.State = StateResolved
	out.Match = c
	out.Best = c.Filters.Clone()
	r.log.Debugw("resolved",
		"provider_pk", out.Person.ProviderPK,
		"profile_id", c.Payment.ProfileID,
		"num_filters", c.NumFilters(),
		"filters", c.Filters.String(),
	)
	return out
}

// narrow returns the candidates carrying the first tag in tier that any
// candidate carries. ok is false when no candidate carries any of them.
func narrow(cands []*Candidate, tier []FilterTag) ([]*Candidate, bool) {
	for _, tag := range tier {
		if sub := withTag(cands, tag); len(sub) > 0 {
			return sub, true
		}
	}
	return cands, false
}

func withTag(cands []*Candidate, tag FilterTag) []*Candidate {
	var out []*Candidate
	for _, c := range cands {
		if c.Filters.Has(tag) {
			out = append(out, c)
		}
	}
	return out
}

func maxFilters(cands []*Candidate) []*Candidate {
	most := 0
	for _, c := range cands {
		if n := c.NumFilters(); n > most {
			most = n
		}
	}
	var out []*Candidate
	for _, c := range cands {
		if c.NumFilters() == most {
			out = append(out, c)
		}
	}
	return out
}
