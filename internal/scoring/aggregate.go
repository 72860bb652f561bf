package scoring

// RankWeight converts a 1-based rank into its contribution weight.
// The decay is a step function that flattens after the fourth pick:
// 1→5, 2→4, 3→3, 4→2, 5 and beyond→1. Ranks below 1 weigh nothing.
func RankWeight(rank int) float64 {
	switch {
	case rank <= 0:
		return 0
	case rank == 1:
		return 5
	case rank == 2:
		return 4
	case rank == 3:
		return 3
	case rank == 4:
		return 2
	default:
		return 1
	}
}

// Aggregate accumulates the weighted contribution of every ranked
// option into a raw score vector.
//
// Unknown question ids, unknown option ids and behavioral rules that do
// not resolve all contribute nothing. Aggregate never fails and does not
// deduplicate: an option listed twice is counted at both ranks.
func Aggregate(questions []QuestionConfig, responses []UserResponse, rules BehavioralRules) Vector {
	raw := NewVector()

	options := make(map[string]map[string]*OptionConfig, len(questions))
	for qi := range questions {
		q := &questions[qi]
		byID := make(map[string]*OptionConfig, len(q.Options))
		for oi := range q.Options {
			byID[q.Options[oi].ID] = &q.Options[oi]
		}
		options[q.ID] = byID
	}

	for _, resp := range responses {
		byID, ok := options[resp.QuestionID]
		if !ok {
			continue
		}
		for i, optionID := range resp.RankedOptionIDs {
			opt, ok := byID[optionID]
			if !ok {
				continue
			}
			w := RankWeight(i + 1)

			if rule, ok := rules[opt.BehavioralRule]; ok && opt.BehavioralRule != "" {
				for dim, ruleWeight := range rule {
					raw[dim] += w * ruleWeight
				}
				continue
			}
			for _, dw := range opt.Weights {
				raw[dw.Dimension] += w * dw.Weight
			}
		}
	}

	return raw
}
