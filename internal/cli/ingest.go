// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jeranaias/aura-tui/internal/model"
	"github.com/jeranaias/aura-tui/internal/session"
)

// ingestResult is one entry of the --json output.
type ingestResult struct {
	Source  string `json:"source"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	DocID   string `json:"doc_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HandleIngest uploads files or a text snippet.
//
//	aura ingest report.pdf notes.md
//	aura ingest --text "Q3 revenue grew 12%" --title "Q3 note"
func HandleIngest(ctx context.Context, env *Env) error {
	var results []ingestResult
	if env.Args.Text != "" {
		results = []ingestResult{ingestText(ctx, env, env.Args.Text, env.Args.Title)}
	} else {
		for _, path := range env.Args.Files {
			results = append(results, ingestFile(ctx, env, path))
		}
	}

	failed := 0
	for _, r := range results {
		if !r.OK {
			failed++
		}
	}
	var err error
	if failed > 0 {
		err = fmt.Errorf("%d of %d ingestions failed", failed, len(results))
	}

	if env.Args.JSON {
		return OutputJSON(env.Out, "ingest", func() (any, error) {
			return results, err
		})
	}

	if !env.Args.Quiet || err != nil {
		for _, r := range results {
			msg := r.Message
			if r.Error != "" {
				msg += ": " + r.Error
			}
			fmt.Fprintln(env.Out, env.status(r.OK, msg))
		}
	}
	return err
}

func ingestText(ctx context.Context, env *Env, text, title string) ingestResult {
	if title == "" {
		title = model.DeriveTitle(text)
	}
	r := ingestResult{Source: title}

	resp, err := env.Client.IngestText(ctx, text, title)
	if err != nil {
		env.Logger.Warn("text ingest failed", zap.Error(err))
		r.Message = session.IngestFailed
		r.Error = describeError(err)
		return r
	}

	r.OK = true
	r.Message = session.TextIngestedMsg
	if resp != nil {
		r.DocID = resp.DocID
	}
	return r
}

func ingestFile(ctx context.Context, env *Env, path string) ingestResult {
	name := filepath.Base(path)
	r := ingestResult{Source: path}

	info, err := os.Stat(path)
	switch {
	case err != nil:
		r.Message = session.UploadFailed + " " + name
		r.Error = err.Error()
		return r
	case info.IsDir():
		r.Message = session.UploadFailed + " " + name
		r.Error = "is a directory (use 'aura watch' for folders)"
		return r
	}

	resp, err := env.Client.IngestFilePath(ctx, path)
	if err != nil {
		env.Logger.Warn("file ingest failed", zap.String("file", path), zap.Error(err))
		r.Message = session.UploadFailed + " " + name
		r.Error = describeError(err)
		return r
	}

	r.OK = true
	r.Message = session.FileIngestedMessage(name)
	if resp != nil {
		r.DocID = resp.DocID
	}
	return r
}
