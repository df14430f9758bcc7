package winrm

import (
	"context"
	"fmt"

	"github.com/cwb124/WinRM/wsman"
)

// Stream tags a Chunk as belonging to a command's stdout or stderr.
type Stream string

const (
	StreamStdout Stream = "stdout"
	StreamStderr Stream = "stderr"
)

// Chunk is one decoded block of command output, in the order it was
// emitted on the remote console.
type Chunk struct {
	Stream Stream
	Data   []byte
}

// Output is the aggregate result of draining a command to completion:
// every chunk in arrival order, plus the exit code once CommandState
// reaches Done. ExitCode is nil until then.
type Output struct {
	Chunks   []Chunk
	ExitCode *int
}

// Stdout concatenates every stdout chunk.
func (o *Output) Stdout() []byte {
	return o.concat(StreamStdout)
}

// Stderr concatenates every stderr chunk.
func (o *Output) Stderr() []byte {
	return o.concat(StreamStderr)
}

func (o *Output) concat(stream Stream) []byte {
	var buf []byte
	for _, c := range o.Chunks {
		if c.Stream == stream {
			buf = append(buf, c.Data...)
		}
	}
	return buf
}

// Sink receives one Chunk per non-empty stream read, in arrival order.
// Passing nil is valid — the caller only wants the final aggregate.
type Sink func(Chunk)

// pump drains commandID's output to completion with an explicit loop
// rather than recursion, so a long-running command never grows the call
// stack. Each Receive round's rsp:Stream elements are emitted to sink one
// chunk at a time, in the exact document order the response carried them
// — stdout and stderr are never coalesced or reordered relative to each
// other — then the loop inspects CommandState; on Done it reads ExitCode
// and returns. A round with no new bytes and no Done is not an error —
// WinRM's Receive may legitimately return empty while a command is still
// running — the loop simply issues another Receive.
func pump(ctx context.Context, s *Session, epr *wsman.EndpointReference, commandID string, sink Sink) (*Output, error) {
	out := &Output{}
	for {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		result, err := s.client.Receive(ctx, s.snapshotConfig(), epr, commandID)
		if err != nil {
			return out, fmt.Errorf("winrm: pump: %w", err)
		}

		for _, stream := range result.Streams {
			c := Chunk{Stream: streamName(stream.Name), Data: stream.Data}
			out.Chunks = append(out.Chunks, c)
			if sink != nil {
				sink(c)
			}
		}

		if result.Done {
			exitCode := result.ExitCode
			out.ExitCode = &exitCode
			return out, nil
		}
	}
}

// streamName maps a wsman rsp:Stream Name attribute to its Stream
// constant; anything other than "stdout"/"stderr" is passed through
// verbatim so an unrecognized stream name is visible rather than dropped.
func streamName(name string) Stream {
	switch name {
	case "stdout":
		return StreamStdout
	case "stderr":
		return StreamStderr
	default:
		return Stream(name)
	}
}
