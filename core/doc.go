// Package core provides the provider-agnostic heart of the Scribe SDK:
// the Client and fluent ChatBuilder, the retry policy applied by provider
// transports, the streaming contract, the tool-calling loop, and the
// tool-execution tracker.
//
// # Basic usage
//
//	provider := openai.New("sk-...")
//	client := core.NewClient(provider)
//
//	resp, err := client.Chat("gpt-4o").
//		System("You are a helpful tutor.").
//		User("Explain photosynthesis in one paragraph.").
//		GetResponse(ctx)
//
// # Streaming
//
//	stream, err := client.Chat("gpt-4o").User("Tell me a story.").Stream(ctx)
//	for chunk := range stream.Ch {
//		fmt.Print(chunk.Delta)
//	}
//
// # Tool calling
//
// Register tools in a tools.Registry, advertise them on the request, and
// let ToolLoop drive the execute-and-follow-up cycle:
//
//	loop := client.Chat("gpt-4o").
//		User("What's the weather in Paris?").
//		Tools(registry.List()...).
//		ToolLoop(registry)
//	result, err := loop.Run(ctx)
//
// The loop is depth-bounded (default 2): when the bound is reached, tools
// are withheld from the request so the model must answer in plain text.
//
// # Failure semantics
//
// Each request resolves to exactly one of: a response, a timeout error
// (core.ErrTimeout, never retried), a network error (retried, then
// surfaced), or an API error (retried only for statuses 429, 502, 503,
// 524). Tool failures inside a loop never abort the run; they are fed back
// to the model as error-valued tool results.
package core
