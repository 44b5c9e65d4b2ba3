package pipeline

import "eventscout/internal/tools"

// Default stage definitions.

// ResearcherStage summarizes the discovery report.
func ResearcherStage() Stage {
	return Stage{
		Role: RoleResearcher,
		Persona: `You are a senior researcher who tracks AI, machine learning and tech events in the San Francisco Bay Area.
You work only from the discovery report you are given. You never invent events, dates or links.`,
		Task: `Summarize the discovery report below into a detailed report of AI events in the next 7 to 10 days.
Use ONLY the scraped data in the report. For each event give the title, date, time, location and signup URL when the report has them.
A signup URL must be copied from the report's "Signup URLs" list. If an event has none, write "not available".`,
		ExpectedOutput:     "A bullet-point report of upcoming AI events with dates, locations and signup URLs.",
		RequiredCapability: tools.CapabilitySearch,
		RestrictURLs:       true,
	}
}

// DocumentReaderStage extracts events from the supplied document.
func DocumentReaderStage() Stage {
	return Stage{
		Role:    RoleDocumentReader,
		Persona: `You read documents and pull out the events they describe, exactly as written.`,
		Task: `Read the document below and list every event in it.
If the tool output says "no content available", reply that no document content was available.`,
		ExpectedOutput:     "Every event in the document with its date, description, signup URL and location.",
		RequiredCapability: tools.CapabilityDocumentRead,
	}
}

// eventFormat is the block layout the Writer and Critic enforce.
const eventFormat = "```\n" +
	"## [Day of the week], [Month Day]\n" +
	"- [Event Title]\n" +
	"- Time: [Start time]\n" +
	"- Location: [Venue, City]\n" +
	"- Description: [One or two sentences]\n" +
	"- Sign Up: [URL from the allowed list, or not available]\n" +
	"```"

// WriterStage drafts the newsletter.
func WriterStage() Stage {
	return Stage{
		Role: RoleWriter,
		Persona: `You are a senior technical writer covering AI and machine learning.
You write in an engaging, simple, straightforward and concise style.`,
		Task: "Write a short, impactful headline as a level-one markdown heading, then list all events ordered by date.\n" +
			"Group events under one date heading per day and use exactly this format for every event:\n\n" + eventFormat + "\n\n" +
			"Separate events with a blank line. Never use a bare site address such as https://lu.ma/ as a signup link.",
		ExpectedOutput: "A markdown newsletter with a headline and AI events ordered by date with all required details.",
		RestrictURLs:   true,
	}
}

// CriticStage reviews and finalizes the draft.
func CriticStage() Stage {
	return Stage{
		Role: RoleCritic,
		Persona: `You are an expert editor of technical newsletters. You keep writing concise, simple and engaging
while staying technically accurate.`,
		Task: "Review the Writer's draft and return the final newsletter in full.\n" +
			"Check that every event follows this format:\n\n" + eventFormat + "\n\n" +
			"Every Sign Up line must be a URL from the allowed list, copied exactly, or the words \"not available\". Replace any other link with \"not available\".\n" +
			"Return only the finished newsletter, with no commentary.",
		ExpectedOutput: "The finalized, well-formatted markdown newsletter.",
		RestrictURLs:   true,
	}
}
