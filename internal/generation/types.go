package generation

// Source cites one knowledge-base document backing an answer.
type Source struct {
	Document       string  `json:"document"`
	Page           int     `json:"page"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Body is the user-facing part of a structured answer.
type Body struct {
	Greeting   string   `json:"greeting,omitempty"`
	Overview   string   `json:"overview"`
	KeyPoints  []string `json:"key_points"`
	FollowUp   []string `json:"follow_up"`
	Disclaimer string   `json:"disclaimer,omitempty"`
}

// Metadata carries answer diagnostics for the caller.
type Metadata struct {
	Sources            []Source `json:"sources,omitempty"`
	ConfidenceScore    float64  `json:"confidence_score"`
	NeedsClarification bool     `json:"needs_clarification,omitempty"`
	ClarificationTypes []string `json:"clarification_types,omitempty"`
	LowConfidence      bool     `json:"low_confidence,omitempty"`
	ValidationWarnings []string `json:"validation_warnings,omitempty"`
	Error              string   `json:"error,omitempty"`
}

// Answer is the structured response returned for every request.
type Answer struct {
	Response Body     `json:"response"`
	Metadata Metadata `json:"metadata"`
}

// Disclaimer accompanies every substantive answer.
const Disclaimer = "This is general information, not legal advice. Please consult with an immigration attorney for legal counsel."

// GreetingAnswer returns the canned reply for greeting queries. It never
// touches the language model.
func GreetingAnswer() Answer {
	return Answer{
		Response: Body{
			Greeting:  "Hi, I'm Immi! 👋",
			Overview:  "I'm here to help with your US immigration and visa questions.",
			KeyPoints: []string{},
			FollowUp: []string{
				"What type of visa are you interested in?",
				"Would you like to learn about the immigration process?",
				"Do you have specific visa requirements questions?",
			},
		},
		Metadata: Metadata{ConfidenceScore: 1.0},
	}
}

// OutOfDomainAnswer returns the canned redirect for questions outside
// immigration topics.
func OutOfDomainAnswer(query string) Answer {
	topic := "that"
	if fields := splitFirstWord(query); fields != "" {
		topic = fields
	}
	return Answer{
		Response: Body{
			Greeting: "Hi, I'm Immi!",
			Overview: "While I'd love to chat about " + topic + ", I'm actually your go-to expert for US immigration! " +
				"I've been trained extensively on visa processes, immigration laws, and everything that helps make the American dream accessible. " +
				"How about we discuss your immigration journey instead?",
			KeyPoints: []string{},
			FollowUp: []string{
				"What would you like to know about US visas?",
				"Are you interested in learning about different immigration pathways?",
				"Do you have any specific immigration questions I can help with?",
			},
			Disclaimer: Disclaimer,
		},
		Metadata: Metadata{ConfidenceScore: 0},
	}
}

// ClarificationAnswer asks the user to disambiguate before retrieval runs.
func ClarificationAnswer(prompt string, followUp []string, confidence float64) Answer {
	if prompt == "" {
		prompt = "Could you please specify which type of visa you're interested in?"
	}
	if followUp == nil {
		followUp = []string{}
	}
	return Answer{
		Response: Body{
			Overview:  prompt,
			KeyPoints: []string{},
			FollowUp:  followUp,
		},
		Metadata: Metadata{
			ConfidenceScore:    confidence,
			NeedsClarification: true,
			ClarificationTypes: []string{"visa_category"},
		},
	}
}

// ErrorAnswer converts an internal failure into an apologetic answer. The
// error detail stays in metadata, never in the user-facing body.
func ErrorAnswer(err error) Answer {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return Answer{
		Response: Body{
			Overview:   "I apologize, but I encountered an error while processing your question.",
			KeyPoints:  []string{},
			FollowUp:   []string{"Would you like to try rephrasing your question?"},
			Disclaimer: Disclaimer,
		},
		Metadata: Metadata{
			ConfidenceScore: 0,
			Error:           detail,
		},
	}
}

func splitFirstWord(s string) string {
	start := 0
	for start < len(s) && s[start] == ' ' {
		start++
	}
	end := start
	for end < len(s) && s[end] != ' ' {
		end++
	}
	return s[start:end]
}
