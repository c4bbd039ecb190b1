package vibe

import (
	"vibemcp/internal/cmdline"
	"vibemcp/internal/tools"
)

func youtubeTool() *Definition {
	return &Definition{
		Name: "youtube_analysis",
		Description: "Analyze YouTube videos to extract insights, summaries, transcripts, or implementation plans. " +
			"Requires a valid YouTube URL. Use this tool when you need to understand video content, create summaries, " +
			"or convert video tutorials into actionable plans.",
		Category: tools.CategoryResearch,
		Schema: tools.ToolSchema{
			Required: []string{"youtube_url", argDirectory},
			Properties: map[string]tools.Property{
				"youtube_url": stringProperty("The YouTube video URL to analyze"),
				"question":    stringProperty("Optional specific question about the video"),
				"analysis_type": enumProperty("Type of analysis to perform (default: summary)",
					"summary", "transcript", "plan", "review", "custom"),
				argDirectory: directoryProperty(""),
			},
		},
		Build: func(program string, args tools.Args) (*cmdline.Spec, error) {
			spec := command(program, "youtube").Add(cmdline.Positional{Raw: args.String("youtube_url")})
			question := args.String("question")
			spec.AddIf(question != "", cmdline.Positional{Raw: question})
			optString(spec, args, "analysis_type", "type")
			return spec, nil
		},
	}
}
