package hypothesis

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/missioneda/internal/dataset"
)

// Suite names each mission test and how to compute it from a cleaned table.
type Suite struct {
	Title string
	Run   func(*dataset.Table) (Result, error)
}

// MissionSuite is the fixed list of tests reported for the dataset, in order.
var MissionSuite = []Suite{
	{Title: "Chi-Square Test: Launch Vehicle vs Mission Type", Run: VehicleVsMissionType},
	{Title: "T-Test: Scientific Yield (Research vs Colonization)", Run: YieldResearchVsColonization},
	{Title: "Z-Test: Mission Cost (Moon vs Exoplanet)", Run: CostMoonVsExoplanet},
}

// VehicleVsMissionType tests independence of launch vehicle and mission type.
func VehicleVsMissionType(t *dataset.Table) (Result, error) {
	vehicles, err := t.Strings(dataset.ColLaunchVehicle)
	if err != nil {
		return Result{}, err
	}
	types, err := t.Strings(dataset.ColMissionType)
	if err != nil {
		return Result{}, err
	}
	ct, err := Crosstab(vehicles, types)
	if err != nil {
		return Result{}, err
	}
	return ChiSquare(ct)
}

// YieldResearchVsColonization compares scientific yield of research and
// colonization missions with Welch's t-test.
func YieldResearchVsColonization(t *dataset.Table) (Result, error) {
	a, err := t.FloatsWhere(dataset.ColMissionType, "Research", dataset.ColScientificYield)
	if err != nil {
		return Result{}, err
	}
	b, err := t.FloatsWhere(dataset.ColMissionType, "Colonization", dataset.ColScientificYield)
	if err != nil {
		return Result{}, err
	}
	return WelchT(a, b)
}

// CostMoonVsExoplanet compares mission cost of moon and exoplanet targets
// with a two-sample z-test.
func CostMoonVsExoplanet(t *dataset.Table) (Result, error) {
	a, err := t.FloatsWhere(dataset.ColTargetType, "Moon", dataset.ColMissionCost)
	if err != nil {
		return Result{}, err
	}
	b, err := t.FloatsWhere(dataset.ColTargetType, "Exoplanet", dataset.ColMissionCost)
	if err != nil {
		return Result{}, err
	}
	return ZTest(a, b)
}

// RunSuite runs every test in order, printing each result under its title
// through heading. The first failing test stops the run.
func RunSuite(t *dataset.Table, w io.Writer, heading func(io.Writer, string)) ([]Result, error) {
	out := make([]Result, 0, len(MissionSuite))
	for _, s := range MissionSuite {
		heading(w, s.Title)
		res, err := s.Run(t)
		if err != nil {
			return out, fmt.Errorf("%s: %w", s.Title, err)
		}
		fmt.Fprintln(w, res.String())
		out = append(out, res)
	}
	return out, nil
}
