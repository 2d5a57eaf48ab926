// Package ring provides a fixed-capacity circular buffer whose entries are
// addressed by monotonically increasing external indices.
//
//   - [CircularList]: the buffer; once full, each store silently evicts the
//     oldest entry
//   - [HistoryList], [HistoryIterator]: the interfaces consumers depend on
//
// External index 0 is the first value ever stored; indices grow without
// bound while physical slots wrap modulo capacity. Only the most recent
// capacity entries remain readable, between StartIndex and EndIndex.
package ring
