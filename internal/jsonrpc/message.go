// Sophrosyne
//   Copyright (C) 2024  Mads R. Havmand
//
// This program is free software: you can redistribute it and/or modify
//   it under the terms of the GNU Affero General Public License as published by
//   the Free Software Foundation, either version 3 of the License, or
//   (at your option) any later version.
//
//   This program is distributed in the hope that it will be useful,
//   but WITHOUT ANY WARRANTY; without even the implied warranty of
//   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//   GNU Affero General Public License for more details.
//
//   You should have received a copy of the GNU Affero General Public License
//   along with this program.  If not, see <http://www.gnu.org/licenses/>.

package jsonrpc

// RequestMessage is a single [Request] or a batch of them, as produced by
// [ParseRequest]. A batch of length zero is a valid parse and carries an
// empty Items slice.
type RequestMessage struct {
	Batch bool
	// Single is meaningful only when Batch is false.
	Single Request
	// Items is meaningful only when Batch is true.
	Items []Request
}

// SingleRequestMessage wraps a single request.
func SingleRequestMessage(r Request) RequestMessage {
	return RequestMessage{Single: r}
}

// NewBatchRequestMessage wraps a (possibly empty or nil) batch of requests.
func NewBatchRequestMessage(items []Request) RequestMessage {
	return RequestMessage{Batch: true, Items: items}
}

// responseMessageKind tags the three states a [ResponseMessage] can be in.
type responseMessageKind uint8

const (
	responseMessageNone responseMessageKind = iota
	responseMessageSingle
	responseMessageBatch
)

// ResponseMessage is a single [Response], a batch of them, or none at all —
// the outcome of running a [RequestMessage] through a pipeline. None means
// every request in the message was a notification (or suppressed its
// reply), so nothing should be written to the wire.
type ResponseMessage struct {
	kind   responseMessageKind
	single Response
	items  []Response
}

// NoResponseMessage is the outcome of an all-notification request message.
func NoResponseMessage() ResponseMessage {
	return ResponseMessage{kind: responseMessageNone}
}

// SingleResponseMessage wraps a single response.
func SingleResponseMessage(r Response) ResponseMessage {
	return ResponseMessage{kind: responseMessageSingle, single: r}
}

// NewBatchResponseMessage wraps a batch of responses. An empty, non-nil
// slice still renders as a JSON array ([]) by the composer, matching the
// "batch of notifications that isn't itself empty" scenario; callers that
// want to suppress output for an all-notification batch should check
// len(items) == 0 and use [NoResponseMessage] instead.
func NewBatchResponseMessage(items []Response) ResponseMessage {
	return ResponseMessage{kind: responseMessageBatch, items: items}
}

// IsNone reports whether the message produces no wire output at all.
func (m ResponseMessage) IsNone() bool { return m.kind == responseMessageNone }

// IsBatch reports whether the message is a batch.
func (m ResponseMessage) IsBatch() bool { return m.kind == responseMessageBatch }

// Single returns the wrapped response; meaningful only when !IsBatch() && !IsNone().
func (m ResponseMessage) Single() Response { return m.single }

// Items returns the wrapped batch; meaningful only when IsBatch().
func (m ResponseMessage) Items() []Response { return m.items }
