// Package prompt holds the instruction templates for every LLM call the
// research pipeline makes, ported into plain builder functions.
package prompt

import (
	"fmt"
	"strings"
	"time"
)

// CurrentDate returns today's date in a readable format for prompt context.
func CurrentDate() string {
	return time.Now().Format("January 02, 2006")
}

// ReformulateQuery builds the stage-1 prompt: reshape the raw
// conversational query into a canonical retrieval query.
func ReformulateQuery(userQuery string) string {
	var b strings.Builder
	b.WriteString("Your goal is to reformat the given user query for more effective querying about information found in government legislation documents. Use prior context to better understand the user's intent and conversation history so far.\n")
	fmt.Fprintf(&b, "User Query: %s\n", userQuery)
	fmt.Fprintf(&b, "Current Date: %s\n\n", CurrentDate())
	b.WriteString("Instructions:\n")
	b.WriteString("1. Summarize the previous message in 1-2 sentences. Use this as context to better understand the user's intent and conversation history SO FAR.\n")
	b.WriteString("2. Expand common abbreviations/acronyms (e.g., \"AI\" to \"Artificial Intelligence\").\n")
	b.WriteString("3. Do NOT expand bill IDs (e.g., \"H.B. 123\") or uncommon acronyms.\n")
	b.WriteString("4. Maintain original meaning. Add specificity if clearly needed from context.\n")
	b.WriteString("5. Do NOT add filter-like terms (year, state, bill ID) that are handled separately. Focus on semantically enriching the core query.\n")
	b.WriteString("Return only the reformulated query text.\n")
	return b.String()
}

// ExtractFilters builds the stage-2 prompt: derive structured filter
// criteria from the canonical query.
func ExtractFilters(userQuery string) string {
	var b strings.Builder
	b.WriteString("You specialize in extracting structured filter criteria from user queries related to legislative bills. Your task is to analyze the user's query, understand the context, and group them into the appropriate filter categories. Output your findings as a single, minified JSON object with the optional fields \"bill_identifier\" (string), \"year\" (array of integers), and \"state\" (string).\n\n")
	fmt.Fprintf(&b, "The current date is: %s, and use this to help you with the necessary context depending on how user's query is phrased.\n\n", CurrentDate())
	fmt.Fprintf(&b, "User Query: %s\n\n", userQuery)
	b.WriteString("1. If the user is asking about a specific bill, use the bill identifier to identify the bill. Bill Identifiers are usually a combination of some number and a letter, such as H.R. 1 or S. 1. If the user asks for some ACT or some other descriptor then it refers to the title of the bill rather than the id.\n")
	b.WriteString("2. If the user is asking about a specific state, use the state to identify the bill. If the user is hinting at a nation wide or federal level policy, use the Federal tag as the state.\n")
	b.WriteString("3. If the user is asking about a specific year, use the year to identify the bill.\n")
	b.WriteString("If a category is not found, it is okay to leave the field blank.\n")
	return b.String()
}

// GradeDocuments builds the stage-4 prompt: one batched grading call over
// an indexed snippet block covering every candidate.
func GradeDocuments(userQuery string, docContext string) string {
	var b strings.Builder
	b.WriteString("You are an AI assistant. Your task is to grade a list of retrieved documents based on their relevance to the user's query.\n")
	fmt.Fprintf(&b, "User Query: %s\n\n", userQuery)
	b.WriteString("Retrieved Documents Overview:\n")
	b.WriteString(docContext)
	b.WriteString("\n\nInstructions:\n")
	b.WriteString("Provide your output as a single JSON object with a \"grades\" array. Each grade object should specify the 'doc_index' (0-based index in the original list), 'is_relevant' (boolean), and optionally 'reasoning'.\n")
	return b.String()
}

// SummarizeBill builds the stage-6 prompt for one document's
// summarization task. The text passed in is already truncated.
func SummarizeBill(userQuery, title, truncatedText string) string {
	var b strings.Builder
	b.WriteString("You are an expert at reading legislative bills and summarizing them concisely.\n")
	fmt.Fprintf(&b, "User Query for Context: %s\n\n", userQuery)
	fmt.Fprintf(&b, "Bill Title: %s\n", title)
	b.WriteString("Bill Content:\n")
	b.WriteString(truncatedText)
	b.WriteString("\n\nInstructions:\n")
	b.WriteString("1. Read the bill carefully, focusing on aspects relevant to the user's query if possible.\n")
	b.WriteString("2. Extract key points, specific clauses, numbers, dates, and quantitative information.\n")
	b.WriteString("3. Produce a summary using bullet points for readability.\n")
	b.WriteString("4. If specific clauses/sections are highly relevant to the query, include their core meaning or quote very short, critical parts.\n")
	b.WriteString("5. Once a full summary has been generated, condense your knowledge and generate a very short and concise one sentence descriptive summary of the bill.\n\n")
	b.WriteString("Provide your output as a single JSON object with the fields \"summary_text\" and \"one_line_summary\".\n")
	return b.String()
}

// CompileReport builds the stage-8 prompt over every merged summary.
func CompileReport(userQuery string, summariesContext string) string {
	var b strings.Builder
	b.WriteString("You are an AI research assistant. Given the user's original query and a set of bill summaries, produce a comprehensive report in Markdown. Follow this structure exactly:\n\n")
	b.WriteString("# Topic Overview\n")
	b.WriteString("Write a 2-3 sentence paragraph that synthesizes the main findings as they relate to the user's query.\n\n")
	b.WriteString("Based on what the user's intentions are from the query they provide:\n")
	b.WriteString("If they are curious about a topic, then you can provide a list of key ideas and insights, figures, and actionable recommendations.\n")
	b.WriteString("If they are looking for a bill, then you can provide a list of bills that are relevant to the query.\n")
	b.WriteString("If they are interested in the process of a bill, then you can provide the bill's process based on the information you have from the bill summaries.\n\n")
	b.WriteString("<Instructions>\n")
	b.WriteString("Use clear and concise language, avoid jargon and complex vocabulary.\n")
	b.WriteString("Use markdown separators to create clear sections.\n")
	b.WriteString("</Instructions>\n\n")
	fmt.Fprintf(&b, "<UserQuery>\n%s\n</UserQuery>\n\n", userQuery)
	fmt.Fprintf(&b, "<BillSummaries>\n%s\n</BillSummaries>\n\n", summariesContext)
	b.WriteString("Begin your report now.\n")
	return b.String()
}
