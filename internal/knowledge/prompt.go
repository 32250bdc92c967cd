package knowledge

import "strings"

const promptInstruction = "Answer clearly and helpfully based on the context provided."

// BuildPrompt 组装发送给生成模型的提示词
// 片段按相似度顺序逐行拼接，超出预算时整段丢弃，不会截断片段内容
// 同时返回实际进入提示词的片段，调用方据此回显上下文
func BuildPrompt(query string, snippets []string, maxContextChars int) (string, []string) {
	var builder strings.Builder

	used := 0
	kept := []string{}
	for _, snippet := range snippets {
		if snippet == "" {
			continue
		}
		if maxContextChars > 0 && used+len(snippet) > maxContextChars {
			break
		}
		kept = append(kept, snippet)
		used += len(snippet)
	}

	if len(kept) > 0 {
		builder.WriteString("Context from vector database:\n")
		for _, snippet := range kept {
			builder.WriteString(snippet)
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString("User: ")
	builder.WriteString(query)
	builder.WriteString("\n\n")
	builder.WriteString(promptInstruction)

	return builder.String(), kept
}
