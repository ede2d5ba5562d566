package domain

// Snapshot is the terminal artifact for one username. It is built once by the
// synthesizer and handed out read-only.
type Snapshot struct {
	Profile       Profile            `json:"profile" yaml:"profile"`
	Activity      ActivityAggregate  `json:"activity" yaml:"activity"`
	Repositories  []RepositoryDetail `json:"repositories" yaml:"repositories"`
	SummaryString string             `json:"summaryString" yaml:"summaryString"`
}
