package main

import (
	"strconv"

	"github.com/pterm/pterm"

	"github.com/oliviasaa/FPC-on-a-set/fpcs"
)

func outcomeString(o fpcs.Outcome) string {
	switch o {
	case fpcs.OutcomeConverged:
		return pterm.LightGreen("CONVERGED")
	case fpcs.OutcomeDisagreed:
		return pterm.LightRed("DISAGREED")
	case fpcs.OutcomeTimedOut:
		return pterm.LightYellow("TIMED OUT")
	}
	return o.String()
}

func renderReport(r *fpcs.Report, seed int64) {
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	header := pterm.Sprintfln("run %s  seed %d\n%s after %d rounds", r.RunID, seed, outcomeString(r.Outcome), r.Rounds)
	pterm.Println(pbox.WithTitle(pterm.LightYellow("|RESULT|")).WithTitleTopCenter().Sprint(header))

	rows := pterm.TableData{{"tx", "final opinion", "agreement", "finalized at round"}}
	for tx := range r.FinalOpinion {
		op := "0"
		if r.FinalOpinion[tx] {
			op = "1"
		}
		final := "-"
		if r.TxFinalRound[tx] != -1 {
			final = strconv.Itoa(r.TxFinalRound[tx])
		}
		rows = append(rows, []string{
			strconv.Itoa(tx),
			op,
			pterm.Sprintf("%.2f", r.AgreementRate[tx]),
			final,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	pterm.Println()
}

func renderSummary(reports []*fpcs.Report) {
	counts := map[fpcs.Outcome]int{}
	totalRounds := 0
	for _, r := range reports {
		counts[r.Outcome]++
		totalRounds += r.Rounds
	}
	mean := float64(totalRounds) / float64(len(reports))

	rows := pterm.TableData{
		{"runs", strconv.Itoa(len(reports))},
		{"converged", strconv.Itoa(counts[fpcs.OutcomeConverged])},
		{"disagreed", strconv.Itoa(counts[fpcs.OutcomeDisagreed])},
		{"timed out", strconv.Itoa(counts[fpcs.OutcomeTimedOut])},
		{"mean rounds", pterm.Sprintf("%.1f", mean)},
	}
	pterm.DefaultSection.Println("Summary")
	pterm.DefaultTable.WithData(rows).Render()
}
