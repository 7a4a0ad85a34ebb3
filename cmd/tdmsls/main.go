// The tdmsls tool lists the groups, channels, properties and segments of
// TDMS files.
package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/robert-malhotra/go-tdms/tdms"
	"github.com/robert-malhotra/go-tdms/tdms/miniosrc"
)

const defaultPath = "test/medium.tdms"

var version = "dev"

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "tdmsls",
		Usage:   "List the contents of TDMS files",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "Set log level (panic, fatal, error, warn, info, debug, trace)", EnvVars: []string{"LOG_LEVEL"}},
			&cli.IntFlag{Name: "cache", Value: 0, Usage: "Number of decoded spans to cache", EnvVars: []string{"TDMS_CACHE"}},
			&cli.BoolFlag{Name: "mmap", Usage: "Map local files into memory", EnvVars: []string{"TDMS_MMAP"}},
			&cli.BoolFlag{Name: "index", Usage: "Read metadata from the <file>_index companion file", EnvVars: []string{"TDMS_INDEX"}},
			&cli.StringFlag{Name: "s3-endpoint", Usage: "S3 endpoint for s3://bucket/key paths", EnvVars: []string{"S3_ENDPOINT"}},
			&cli.StringFlag{Name: "s3-access-key", Usage: "S3 access key", EnvVars: []string{"S3_ACCESS_KEY"}},
			&cli.StringFlag{Name: "s3-secret-key", Usage: "S3 secret key", EnvVars: []string{"S3_SECRET_KEY"}},
			&cli.BoolFlag{Name: "s3-insecure", Usage: "Use plain http for the S3 endpoint", EnvVars: []string{"S3_INSECURE"}},
		},
		Before: func(c *cli.Context) error {
			level, err := logrus.ParseLevel(c.String("log-level"))
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
		Action: func(c *cli.Context) error {
			return eachFile(c, list)
		},
		Commands: []*cli.Command{
			{
				Name:      "props",
				Usage:     "Print the properties of every object",
				ArgsUsage: "[file...]",
				Action: func(c *cli.Context) error {
					return eachFile(c, props)
				},
			},
			{
				Name:      "segments",
				Usage:     "Print one line per segment",
				ArgsUsage: "[file...]",
				Action: func(c *cli.Context) error {
					return eachFile(c, segments)
				},
			},
		},
	}
}

func eachFile(c *cli.Context, fn func(io.Writer, *tdms.File) error) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = []string{defaultPath}
	}

	for _, path := range paths {
		f, err := openFile(c, path)
		if f == nil {
			return errors.Wrapf(err, "open %s", path)
		}
		if err != nil {
			logrus.WithField("file", path).WithError(err).Warn("file is damaged, listing what was readable")
		}
		if len(paths) > 1 {
			fmt.Fprintf(c.App.Writer, "%s:\n", path)
		}
		err = fn(c.App.Writer, f)
		f.Close()
		if err != nil {
			return errors.Wrapf(err, "list %s", path)
		}
	}
	return nil
}

func openFile(c *cli.Context, path string) (*tdms.File, error) {
	opts := []tdms.Option{
		tdms.WithCacheSize(c.Int("cache")),
		tdms.WithMmap(c.Bool("mmap")),
	}

	if strings.HasPrefix(path, "s3://") {
		return openObject(c, path, opts)
	}
	if c.Bool("index") {
		opts = append(opts, tdms.WithIndexFile(path+"_index"))
	}
	return tdms.Open(path, opts...)
}

func openObject(c *cli.Context, path string, opts []tdms.Option) (*tdms.File, error) {
	u, err := url.Parse(path)
	if err != nil {
		return nil, errors.Wrap(err, "parse object path")
	}
	endpoint := c.String("s3-endpoint")
	if endpoint == "" {
		return nil, errors.New("--s3-endpoint is required for s3:// paths")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.String("s3-access-key"), c.String("s3-secret-key"), ""),
		Secure: !c.Bool("s3-insecure"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create s3 client")
	}
	return miniosrc.Open(context.Background(), client, u.Host, strings.TrimPrefix(u.Path, "/"), opts...)
}

func list(w io.Writer, f *tdms.File) error {
	for _, g := range f.Groups() {
		fmt.Fprintln(w, g.Name())
		for _, ch := range g.Channels() {
			fmt.Fprintf(w, "    %s\n", ch.Name())
		}
	}
	return nil
}

func props(w io.Writer, f *tdms.File) error {
	return f.WalkProperties(func(info tdms.PropertyInfo) error {
		_, err := fmt.Fprintf(w, "%s\t%s = %v (%s)\n", info.ObjectPath, info.Name, info.Value, info.Type)
		return err
	})
}

func segments(w io.Writer, f *tdms.File) error {
	for _, s := range f.Segments() {
		var notes []string
		if s.UnknownLength {
			notes = append(notes, "unknown length")
		}
		if s.Truncated {
			notes = append(notes, "truncated")
		}
		line := fmt.Sprintf("%4d  @%-10d  toc=%#04x  meta=%-9s  raw=%-9s  objects=%d  chunks=%d",
			s.Index, s.Offset, s.ToC,
			humanize.IBytes(uint64(s.MetadataLength)), humanize.IBytes(uint64(s.RawDataLength)),
			s.Objects, s.Chunks)
		if len(notes) > 0 {
			line += "  (" + strings.Join(notes, ", ") + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, warn := range f.Warnings() {
		fmt.Fprintf(w, "warning: %v\n", warn)
	}
	return nil
}
