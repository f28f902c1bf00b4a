package services

import (
	"log"
	"sync/atomic"
)

// Stage is one of the 9 fixed phases of a litigation case.
type Stage struct {
	ID    string // short code, e.g. "pre"
	Name  string
	Order int
	Coins int64 // stage-completion bonus
}

// Substage is a fixed, named task within a stage carrying its own coin value.
// The stage linkage is an explicit tagged mapping — substage codes happen to
// share the stage code as a prefix ("pre-9"), but nothing parses prefixes.
type Substage struct {
	ID        string // short code, e.g. "pre-9"
	Name      string
	Type      string // classification for the app UI: data_entry, document_upload, milestone
	Coins     int64
	StageID   string
	StageName string
}

const (
	SubstageTypeDataEntry      = "data_entry"
	SubstageTypeDocumentUpload = "document_upload"
	SubstageTypeMilestone      = "milestone"
)

// RewardTable is the single source of truth for how many coins a stage or
// substage is worth. Built once at startup, injected, never mutated — client
// supplied coin values are ignored everywhere.
//
// Unknown-id lookups return 0 with a warning instead of failing: the mobile
// app's checklist may be stale relative to the deployed taxonomy. The atomic
// counters make that drift observable (reported by the scheduler).
type RewardTable struct {
	stages      map[string]*Stage
	substages   map[string]*Substage
	ordered     []*Stage
	subsByStage map[string][]*Substage

	unknownStageLookups    atomic.Int64
	unknownSubstageLookups atomic.Int64
}

type stageSpec struct {
	id    string
	name  string
	coins int64
	subs  []Substage
}

func sub(id, name, typ string, coins int64) Substage {
	return Substage{ID: id, Name: name, Type: typ, Coins: coins}
}

// The canonical Verdict Path taxonomy: 9 stages, 44 substages.
// Values here are the deployed truth; changing one changes what every
// server instance pays out.
var defaultTaxonomy = []stageSpec{
	{id: "pre", name: "Pre-Litigation", coins: 50, subs: []Substage{
		sub("pre-1", "Initial Consultation", SubstageTypeDataEntry, 10),
		sub("pre-2", "Retainer Signed", SubstageTypeDocumentUpload, 10),
		sub("pre-3", "Accident Report", SubstageTypeDocumentUpload, 15),
		sub("pre-4", "Photo Evidence", SubstageTypeDocumentUpload, 5),
		sub("pre-5", "Witness Statements", SubstageTypeDataEntry, 15),
		sub("pre-6", "Medical Records", SubstageTypeDocumentUpload, 20),
		sub("pre-7", "Medical Bills", SubstageTypeDocumentUpload, 20),
		sub("pre-8", "Demand Letter Sent", SubstageTypeMilestone, 25),
		sub("pre-9", "Settlement Negotiation", SubstageTypeMilestone, 35),
	}},
	{id: "cf", name: "Complaint Filed", coins: 40, subs: []Substage{
		sub("cf-1", "Complaint Drafted", SubstageTypeDataEntry, 15),
		sub("cf-2", "Complaint Filed", SubstageTypeMilestone, 20),
		sub("cf-3", "Defendant Served", SubstageTypeMilestone, 15),
		sub("cf-4", "Answer Received", SubstageTypeDataEntry, 15),
		sub("cf-5", "Case Management Conference", SubstageTypeMilestone, 20),
	}},
	{id: "disc", name: "Discovery", coins: 50, subs: []Substage{
		sub("disc-1", "Interrogatories Sent", SubstageTypeDataEntry, 15),
		sub("disc-2", "Interrogatories Answered", SubstageTypeDataEntry, 15),
		sub("disc-3", "Document Production", SubstageTypeDocumentUpload, 20),
		sub("disc-4", "Depositions Scheduled", SubstageTypeDataEntry, 15),
		sub("disc-5", "Deposition Completed", SubstageTypeMilestone, 25),
		sub("disc-6", "Discovery Closed", SubstageTypeMilestone, 20),
	}},
	{id: "med", name: "Mediation", coins: 40, subs: []Substage{
		sub("med-1", "Mediator Selected", SubstageTypeDataEntry, 10),
		sub("med-2", "Mediation Brief Submitted", SubstageTypeDocumentUpload, 15),
		sub("med-3", "Mediation Session Attended", SubstageTypeMilestone, 25),
		sub("med-4", "Mediation Outcome Recorded", SubstageTypeDataEntry, 20),
	}},
	{id: "pt", name: "Pre-Trial", coins: 45, subs: []Substage{
		sub("pt-1", "Pre-Trial Motions", SubstageTypeDataEntry, 20),
		sub("pt-2", "Expert Witnesses Disclosed", SubstageTypeDataEntry, 20),
		sub("pt-3", "Witness List Filed", SubstageTypeDocumentUpload, 15),
		sub("pt-4", "Exhibit List Filed", SubstageTypeDocumentUpload, 15),
		sub("pt-5", "Final Pre-Trial Conference", SubstageTypeMilestone, 25),
	}},
	{id: "tr", name: "Trial", coins: 60, subs: []Substage{
		sub("tr-1", "Jury Selection", SubstageTypeMilestone, 20),
		sub("tr-2", "Opening Statements", SubstageTypeMilestone, 20),
		sub("tr-3", "Plaintiff Case Presented", SubstageTypeMilestone, 30),
		sub("tr-4", "Defense Case Presented", SubstageTypeMilestone, 20),
		sub("tr-5", "Closing Arguments", SubstageTypeMilestone, 25),
	}},
	{id: "ver", name: "Verdict", coins: 50, subs: []Substage{
		sub("ver-1", "Jury Deliberation", SubstageTypeMilestone, 15),
		sub("ver-2", "Verdict Delivered", SubstageTypeMilestone, 40),
		sub("ver-3", "Judgment Entered", SubstageTypeMilestone, 25),
	}},
	{id: "app", name: "Appeal", coins: 55, subs: []Substage{
		sub("app-1", "Notice of Appeal Filed", SubstageTypeDocumentUpload, 15),
		sub("app-2", "Appellate Briefs Submitted", SubstageTypeDocumentUpload, 25),
		sub("app-3", "Oral Argument", SubstageTypeMilestone, 25),
		sub("app-4", "Appellate Decision", SubstageTypeMilestone, 30),
	}},
	{id: "res", name: "Case Resolution", coins: 75, subs: []Substage{
		sub("res-1", "Settlement Funds Received", SubstageTypeMilestone, 25),
		sub("res-2", "Liens Resolved", SubstageTypeDataEntry, 20),
		sub("res-3", "Case Closed", SubstageTypeMilestone, 30),
	}},
}

// DefaultRewardTable builds the canonical table. Call once in main and inject.
func DefaultRewardTable() *RewardTable {
	return NewRewardTable(defaultTaxonomy)
}

func NewRewardTable(specs []stageSpec) *RewardTable {
	t := &RewardTable{
		stages:      make(map[string]*Stage, len(specs)),
		substages:   make(map[string]*Substage),
		subsByStage: make(map[string][]*Substage, len(specs)),
	}
	for i, spec := range specs {
		st := &Stage{ID: spec.id, Name: spec.name, Order: i + 1, Coins: spec.coins}
		t.stages[st.ID] = st
		t.ordered = append(t.ordered, st)
		for _, s := range spec.subs {
			s.StageID = st.ID
			s.StageName = st.Name
			cp := s
			t.substages[s.ID] = &cp
			t.subsByStage[st.ID] = append(t.subsByStage[st.ID], &cp)
		}
	}
	return t
}

// StageCoins returns the canonical stage bonus; unknown ids are worth 0.
func (t *RewardTable) StageCoins(stageID string) int64 {
	st, ok := t.stages[stageID]
	if !ok {
		t.unknownStageLookups.Add(1)
		log.Printf("⚠️ [REWARDS] unknown stage id %q — paying 0 coins", stageID)
		return 0
	}
	return st.Coins
}

// SubstageCoins returns the canonical substage value; unknown ids are worth 0.
func (t *RewardTable) SubstageCoins(substageID string) int64 {
	s, ok := t.substages[substageID]
	if !ok {
		t.unknownSubstageLookups.Add(1)
		log.Printf("⚠️ [REWARDS] unknown substage id %q — paying 0 coins", substageID)
		return 0
	}
	return s.Coins
}

// SubstageByID returns the full substage record, or nil if the id is not part
// of the taxonomy. Does not bump the unknown counter — callers that need the
// warning path go through SubstageCoins.
func (t *RewardTable) SubstageByID(substageID string) *Substage {
	return t.substages[substageID]
}

func (t *RewardTable) StageByID(stageID string) *Stage {
	return t.stages[stageID]
}

// Stages returns the stages in case order.
func (t *RewardTable) Stages() []*Stage {
	return t.ordered
}

// SubstagesForStage returns the stage's substages in checklist order.
func (t *RewardTable) SubstagesForStage(stageID string) []*Substage {
	return t.subsByStage[stageID]
}

// NumSubstages is the fixed denominator for percent-complete.
func (t *RewardTable) NumSubstages() int {
	return len(t.substages)
}

func (t *RewardTable) NumStages() int {
	return len(t.stages)
}

// UnknownLookups reports how many lookups missed the table since process
// start (stage, substage). Monitored to catch taxonomy drift between the
// shipped app and the server.
func (t *RewardTable) UnknownLookups() (int64, int64) {
	return t.unknownStageLookups.Load(), t.unknownSubstageLookups.Load()
}
