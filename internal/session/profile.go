package session

// Pace is the learner's preferred delivery pace.
type Pace string

const (
	PaceNormal Pace = "normal"
	PaceSlow   Pace = "slow"
)

// slowPaceAfter is the simplify request count that switches pace to slow.
const slowPaceAfter = 3

// Profile accumulates learner behaviour across a session. All counters only
// grow, CorrectAnswers never exceeds TotalAnswers, and Pace only ever moves
// from normal to slow.
type Profile struct {
	SimplifyCount     int
	ExampleCount      int
	SectionsCompleted int
	CorrectAnswers    int
	TotalAnswers      int
	Pace              Pace
}

// NewProfile returns an empty profile at normal pace.
func NewProfile() Profile {
	return Profile{Pace: PaceNormal}
}

// Accuracy is CorrectAnswers/TotalAnswers, or 0.5 before any answer.
func (p Profile) Accuracy() float64 {
	if p.TotalAnswers == 0 {
		return 0.5
	}
	return float64(p.CorrectAnswers) / float64(p.TotalAnswers)
}

// RecordSimplify counts a simplify request and ratchets pace to slow once
// enough have been made.
func (p *Profile) RecordSimplify() {
	p.SimplifyCount++
	if p.SimplifyCount >= slowPaceAfter {
		p.Pace = PaceSlow
	}
}

// RecordExample counts an example request.
func (p *Profile) RecordExample() {
	p.ExampleCount++
}

// RecordSection counts a completed learning section.
func (p *Profile) RecordSection() {
	p.SectionsCompleted++
}

// RecordAnswer counts a graded quiz answer.
func (p *Profile) RecordAnswer(correct bool) {
	p.TotalAnswers++
	if correct {
		p.CorrectAnswers++
	}
}

// ProfileSnapshot is the read-only view of a Profile handed to prompts.
type ProfileSnapshot struct {
	SimplifyRequests  int     `json:"simplify_requests"`
	ExampleRequests   int     `json:"example_requests"`
	SectionsCompleted int     `json:"sections_completed"`
	QuizAccuracy      float64 `json:"quiz_accuracy"`
	PreferredPace     Pace    `json:"preferred_pace"`
}

// Snapshot returns a value copy of the profile for prompt rendering.
func (p Profile) Snapshot() ProfileSnapshot {
	return ProfileSnapshot{
		SimplifyRequests:  p.SimplifyCount,
		ExampleRequests:   p.ExampleCount,
		SectionsCompleted: p.SectionsCompleted,
		QuizAccuracy:      p.Accuracy(),
		PreferredPace:     p.Pace,
	}
}
