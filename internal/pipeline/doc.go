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

// Package pipeline composes the jsonrpc parser, the dispatch/registry
// layer, and the jsonrpc composer into three orchestration objects:
//
//   - RequestPipeline owns a per-request arena and turns inbound request
//     documents into response bytes.
//   - ResponsePipeline is the client-side mirror, routing parsed responses
//     to a ResponseDispatcher for call correlation.
//   - MessagePipeline auto-detects request vs. response documents at the
//     envelope level and routes to whichever of the above applies, for
//     peers that are both caller and callee on the same stream.
package pipeline
