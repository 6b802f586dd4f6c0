package store

import "github.com/pfrederiksen/ai-news-events/internal/event"

// SampleEvents returns the built-in event records served when no data file is configured.
func SampleEvents() []*event.Event {
	return []*event.Event{
		event.NewEvent(
			"event-1",
			"AI chip supply chain pressure increases across cloud providers",
			"Major cloud platforms sign multi-year contracts to secure next-generation AI accelerator capacity.",
			"Cloud providers are rapidly expanding procurement agreements for high-performance AI chips. The shift may affect startup access, hardware pricing, and deployment timelines across global regions.",
			"product",
			"global",
			"2026-01-05T10:30:00Z",
		),
		event.NewEvent(
			"event-2",
			"European regulators publish draft guidance for foundation model audits",
			"Draft policy clarifies risk reporting and transparency expectations for model providers.",
			"The new draft guidance outlines disclosure requirements and operational controls for high-impact AI systems, with phased compliance windows for organizations shipping to EU markets.",
			"policy",
			"berlin",
			"2026-01-05T08:00:00Z",
		),
		event.NewEvent(
			"event-3",
			"Research team demonstrates lower-cost multimodal training recipe",
			"A new training approach reduces compute requirements while retaining benchmark performance.",
			"Researchers shared a reproducible method for multimodal model training that lowers total compute usage and improves run stability, potentially benefiting small teams with tighter budgets.",
			"research",
			"san-francisco",
			"2026-01-04T18:15:00Z",
		),
	}
}

// Default returns a Store holding the built-in sample events.
func Default() *Store {
	s, err := New(SampleEvents())
	if err != nil {
		// The sample records are static; failing here is a programming error.
		panic(err)
	}
	return s
}
