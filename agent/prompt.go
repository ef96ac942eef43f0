package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/napier-ai/napier/mcp"
)

const directSystemPrompt = `You are a helpful AI assistant in the Napier terminal application.
You can help users with various tasks and answer questions.
When you're connected to MCP servers, you can use tools to interact with third-party applications.
Be concise, helpful, and friendly in your responses.`

const toolInstructions = `INSTRUCTIONS:
1. Analyze the user's request carefully.
2. If a tool is needed to fulfill the request, decide which tool to use.
3. Format your tool calls as JSON, wrapped in triple backticks with the 'json' tag.
4. Example tool call format:
` + "```json" + `
{
  "tool_name": "tool_name_here",
  "parameters": {
    "param1": "value1",
    "param2": "value2"
  }
}
` + "```" + `
5. After receiving tool results, provide a helpful response that incorporates the information.
6. If no tool is needed, respond directly to the user's request.

Always make sure to follow the exact input schema for each tool when making a call.`

// toolSystemPrompt builds the tool-augmented system instructions from the
// current enumeration. Rebuilt per request: tools differ across connections.
func toolSystemPrompt(tools []mcp.Tool) string {
	var b strings.Builder
	b.WriteString("You are an AI assistant that helps users interact with various applications through tools.\n")
	b.WriteString("You have access to the following tools:\n\n")
	for _, tool := range tools {
		fmt.Fprintf(&b, "- %s: %s\n", tool.Name, tool.Description)
		fmt.Fprintf(&b, "  Input schema: %s\n\n", indentSchema(tool.InputSchema))
	}
	b.WriteString("\n")
	b.WriteString(toolInstructions)
	return b.String()
}

// followupPrompt asks the model to narrate a raw tool result.
func followupPrompt(toolName, rawResult string) string {
	return fmt.Sprintf(`The tool '%s' returned the following result:

%s

Please analyze this result and provide a helpful response to the user based on this information.
Keep your response focused on the insights from the tool result.`, toolName, rawResult)
}

func indentSchema(schema json.RawMessage) string {
	if len(schema) == 0 {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, schema, "  ", "  "); err != nil {
		return string(schema)
	}
	return buf.String()
}
