package validation

var UserCreateSchema = MustCompile("user-create", `{
  "type": "object",
  "properties": {
    "email":    {"type": "string", "format": "email"},
    "password": {"type": "string", "minLength": 1},
    "role":     {"type": "string", "enum": ["candidate", "company"]}
  },
  "required": ["email", "password"]
}`)

var ChallengeCreateSchema = MustCompile("challenge-create", `{
  "type": "object",
  "properties": {
    "title":       {"type": "string", "minLength": 1},
    "description": {"type": "string"}
  },
  "required": ["title", "description"]
}`)

var SubmissionCreateSchema = MustCompile("submission-create", `{
  "type": "object",
  "properties": {
    "content":      {"type": "string"},
    "challenge_id": {"type": "integer", "minimum": 1}
  },
  "required": ["content", "challenge_id"]
}`)

// MatchSuggestionsJobSchema covers the variables of a match-suggestions job.
var MatchSuggestionsJobSchema = MustCompile("match-suggestions-job", `{
  "type": "object",
  "properties": {
    "companyId": {"type": "integer", "minimum": 1}
  },
  "required": ["companyId"]
}`)
