package vibe

import (
	"vibemcp/internal/cmdline"
	"vibemcp/internal/tools"
)

func webSearchTool() *Definition {
	return &Definition{
		Name: "web_search",
		Description: "Search the web for real-time information about any topic. Use this tool when you need up-to-date " +
			"information that might not be available in your training data, or when you need to verify current facts. " +
			"The search results will include relevant snippets and URLs from web pages. This is particularly useful for " +
			"questions about current events, technology updates, or any topic that requires recent information.",
		Category: tools.CategoryResearch,
		Schema: tools.ToolSchema{
			Required: []string{"search_term"},
			Properties: map[string]tools.Property{
				"search_term": stringProperty("The search term to look up on the web. Be specific and include relevant " +
					"keywords for better results. For technical queries, include version numbers or dates if relevant."),
				"provider": stringProperty("Optional AI provider to use (perplexity, gemini, modelbox, or openrouter)"),
			},
		},
		Build: func(program string, args tools.Args) (*cmdline.Spec, error) {
			spec := command(program, "web").Add(cmdline.Positional{Raw: args.String("search_term")})
			optString(spec, args, "provider", "provider")
			return spec, nil
		},
	}
}
