package terms

import "fmt"

const extractionPrompt = `Extract the key skills, technologies and concepts from the text below.
Return ONLY a JSON object that maps each term (lower-case, one to three words) to a confidence score between 0.0 and 1.0.
Example: {"python": 0.9, "data analysis": 0.7}

Text:
%s`

func buildPrompt(text string) string {
	return fmt.Sprintf(extractionPrompt, text)
}
