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

package frame

// Pipeline is the single operation the stream loop drives: turn one
// request document into the bytes to write back (possibly none, for a
// pure notification). [pipeline.RequestPipeline] and
// [pipeline.MessagePipeline] both satisfy this by their RunRequest/Run
// methods once adapted with a one-line closure.
type Pipeline interface {
	RunRequest(data []byte) []byte
}

// PipelineFunc adapts a plain function to [Pipeline].
type PipelineFunc func(data []byte) []byte

func (f PipelineFunc) RunRequest(data []byte) []byte { return f(data) }

// StreamOptions configures [Stream].
type StreamOptions struct {
	// Source identifies this stream to the Logger; defaults to "stream".
	Source string
	Logger Logger
}

// Stream runs the read-dispatch-write loop: read a frame; if none,
// terminate cleanly. Hand the frame to pipeline; write the response, if
// non-empty, as a frame. Pipeline errors never happen at this layer —
// the pipeline always returns wire-ready bytes, error responses
// included — so only reader errors (I/O errors and [ProtocolError]s for
// malformed frames) and writer errors terminate the loop, and they
// propagate to the caller.
func Stream(reader *Reader, writer *Writer, pipeline Pipeline, opts StreamOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	source := opts.Source
	if source == "" {
		source = "stream"
	}

	logger.Start(source)
	defer logger.Stop(source)

	for {
		data, ok, err := reader.ReadFrame()
		if err != nil {
			logger.Log(source, "read", err.Error())
			return err
		}
		if !ok {
			return nil
		}

		logger.Log(source, "dispatch", "")
		resp := pipeline.RunRequest(data)
		if len(resp) == 0 {
			continue
		}

		if err := writer.WriteFrame(resp); err != nil {
			logger.Log(source, "write", err.Error())
			return err
		}
	}
}
