// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/devblok/helix/core"
	"github.com/devblok/helix/utility/kar"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/mmap"
)

func currentUserName() string {
	u, err := user.Current()
	if err != nil || u.Name == "" {
		return "unknown"
	}
	return u.Name
}

func main() {
	app := &cli.App{
		Name:  "kar",
		Usage: "pack, list and extract asset archives",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "s", Usage: "Silent"},
		},
		Before: func(ctx *cli.Context) error {
			if ctx.Bool("s") {
				log.SetLevel(log.WarnLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "pack",
				Usage:     "compress the given folder into an archive",
				ArgsUsage: "<folder>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "author", Value: currentUserName(), Usage: "Set the author of the package"},
					&cli.Int64Flag{Name: "version", Value: 1, Usage: "Archive version number to create it with"},
					&cli.StringFlag{Name: "f", Value: "out.kar", Usage: "Destination file"},
				},
				Action: pack,
			},
			{
				Name:      "list",
				Usage:     "list the entries of an archive",
				ArgsUsage: "<archive>",
				Action:    list,
			},
			{
				Name:      "extract",
				Usage:     "extract one entry, or all of them, into a directory",
				ArgsUsage: "<archive> [entry]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "d", Value: ".", Usage: "Destination directory"},
				},
				Action: extract,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func pack(ctx *cli.Context) error {
	source := ctx.Args().First()
	if source == "" {
		return errors.New("nothing to compress")
	}

	dstFile := ctx.String("f")
	if _, err := os.Stat(dstFile); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	var filesToCompress []string
	err := filepath.Walk(source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		filesToCompress = append(filesToCompress, path)
		return nil
	})
	if err != nil {
		return err
	}

	karBuilder, err := kar.NewBuilder(kar.Header{
		Author:      ctx.String("author"),
		DateCreated: time.Now().Unix(),
		Version:     ctx.Int64("version"),
	})
	if err != nil {
		return err
	}
	defer karBuilder.Close()

	for _, ftc := range filesToCompress {
		f, err := os.Open(ftc)
		if err != nil {
			return err
		}
		err = karBuilder.Add(filepath.ToSlash(ftc), f)
		f.Close()
		if err != nil {
			return err
		}
		log.WithField("stage", core.ShaderTypeFromName(ftc)).Info(ftc)
	}

	dst, err := os.Create(dstFile)
	if err != nil {
		return err
	}
	defer dst.Close()

	written, err := karBuilder.WriteTo(dst)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"files": len(filesToCompress),
		"bytes": written,
	}).Infof("%s written", dstFile)
	return nil
}

func openArchive(ctx *cli.Context) (*mmap.ReaderAt, *kar.Archive, error) {
	file := ctx.Args().First()
	if file == "" {
		return nil, nil, errors.New("no archive given")
	}
	r, err := mmap.Open(file)
	if err != nil {
		return nil, nil, err
	}
	ar, err := kar.Open(r)
	if err != nil {
		r.Close()
		return nil, nil, fmt.Errorf("%s: %w", file, err)
	}
	return r, ar, nil
}

func list(ctx *cli.Context) error {
	r, ar, err := openArchive(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	header := ar.Header()
	fmt.Printf("author: %s, version: %d, created: %s\n",
		header.Author, header.Version, time.Unix(header.DateCreated, 0).Format(time.RFC3339))
	for _, e := range header.Index {
		fmt.Printf("%10d %10d %s\n", e.Size, e.CompressedSize, e.Name)
	}
	return nil
}

func extract(ctx *cli.Context) error {
	r, ar, err := openArchive(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	names := ar.Entries()
	if entry := ctx.Args().Get(1); entry != "" {
		names = []string{entry}
	}

	for _, name := range names {
		data, err := ar.ReadAll(name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		dst := filepath.Join(ctx.String("d"), filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return err
		}
		log.Info(dst)
	}
	return nil
}
