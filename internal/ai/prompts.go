package ai

import "fmt"

// DefaultQuestionCount is how many questions a generation request asks for.
const DefaultQuestionCount = 10

const systemPrompt = "You are an expert technical interviewer helping candidates prepare for job interviews."

const questionsPrompt = `Generate %d challenging and relevant interview questions for this position:

Role: %s
Experience Level: %s
Topics to Focus: %s

The questions should:
1. Suit the %s experience level
2. Cover the topics: %s
3. Be realistic for %s interviews
4. Range from fundamentals to advanced scenarios
5. Mix theoretical and practical questions

%s`

const arrayFormat = `Return the questions as a JSON array in exactly this format:
[
  {"question": "Question text here"},
  {"question": "Question text here"}
]

Only return the JSON array, nothing else.`

const objectFormat = `Return a JSON object in exactly this format:
{"questions": [{"question": "Question text here"}, {"question": "Question text here"}]}

Only return the JSON object, nothing else.`

const answerPrompt = `The candidate is preparing for a %s position at the %s level.

Question: %s

Write a comprehensive, well-structured answer that:
1. Directly addresses the question
2. Fits the %s experience level
3. Explains the key concepts
4. Gives examples where relevant
5. Highlights important points and best practices
6. Stays clear and easy to follow`

// QuestionsMessages builds the generation prompt. jsonMode switches the
// requested shape to an object so it fits providers' JSON response mode.
func QuestionsMessages(role, experience, topics string, count int, jsonMode bool) []ChatMessage {
	if count <= 0 {
		count = DefaultQuestionCount
	}
	format := arrayFormat
	if jsonMode {
		format = objectFormat
	}
	return []ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf(questionsPrompt, count, role, experience, topics, experience, topics, role, format)},
	}
}

func AnswerMessages(question, role, experience string) []ChatMessage {
	return []ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf(answerPrompt, role, experience, question, experience)},
	}
}
