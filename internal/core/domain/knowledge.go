package domain

// KnowledgeDocument is one source file loaded for knowledge-base seeding.
type KnowledgeDocument struct {
	Source string
	Text   string
}

// SeedReport summarizes a seeding run.
type SeedReport struct {
	Documents int
	Chunks    int
	Indexed   int
}
