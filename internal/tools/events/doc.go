// Package events binds the discovery engine, the document reader and the
// language model to the tool capabilities pipeline stages require.
//
// Tools:
//   - event_search: multi-source event discovery (CapabilitySearch)
//   - document_read: the user-supplied event document (CapabilityDocumentRead)
//   - generate: bounded language model completion (CapabilityGenerate)
package events
