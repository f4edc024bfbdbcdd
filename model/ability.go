package model

// Provider identifiers of the call boundary
const (
	ProviderInternal = "internal"
	ProviderExternal = "external"
)

// Ability name vocabulary; each is an opaque remote function identified by
// name, invoked with an argument mapping and returning a result mapping.
const (
	AbilityParseRequest       = "parse_request_text"
	AbilityExtractEntities    = "extract_entities"
	AbilityNormalizeFields    = "normalize_fields"
	AbilityEnrichRecords      = "enrich_records"
	AbilityComputeFlags       = "add_flags_calculations"
	AbilityClarifyQuestion    = "clarify_question"
	AbilityExtractAnswer      = "extract_answer"
	AbilityKnowledgeSearch    = "knowledge_base_search"
	AbilitySolutionEvaluation = "solution_evaluation"
	AbilityEscalationDecision = "escalation_decision"
	AbilityUpdateTicket       = "update_ticket"
	AbilityCloseTicket        = "close_ticket"
	AbilityGenerateResponse   = "response_generation"
	AbilityExecuteAPICalls    = "execute_api_calls"
	AbilityNotify             = "trigger_notifications"
)
