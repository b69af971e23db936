package topics

const (
	// Ingestão de partidas
	MatchIngested = "match_ingested"

	// DLQs
	MatchIngestedDLQ = "match_ingested_dlq"

	// Redis Pub/Sub: avisa o scout-service que partidas de um time mudaram
	ScoutMatchesUpdated = "scout_matches_updated"
)
