package tdms

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Group is a named collection of channels.
type Group struct {
	file       *File
	name       string
	path       string
	props      *Properties
	channels   []*Channel
	channelIdx map[string]*Channel
	implicit   bool
}

// Name returns the group name.
func (g *Group) Name() string {
	return g.name
}

// Path returns the group's object path, e.g. "/'Measurements'".
func (g *Group) Path() string {
	return g.path
}

// File returns the file the group belongs to.
func (g *Group) File() *File {
	return g.file
}

// Properties returns the group's properties.
func (g *Group) Properties() *Properties {
	return g.props
}

// Implicit reports whether the group was never declared by its own
// metadata record and exists only because a channel referred to it.
func (g *Group) Implicit() bool {
	return g.implicit
}

// Channels returns the group's channels in the order they first appeared.
func (g *Group) Channels() []*Channel {
	return append([]*Channel(nil), g.channels...)
}

// Channel returns the named channel.
func (g *Group) Channel(name string) (*Channel, error) {
	ch, ok := g.channelIdx[name]
	if !ok {
		return nil, fmt.Errorf("channel %q in group %q: %w", name, g.name, ErrNotFound)
	}
	return ch, nil
}

func (g *Group) addChannel(name string) *Channel {
	path := ChannelPath(g.name, name)
	ch := &Channel{
		file:  g.file,
		group: g,
		name:  name,
		path:  path,
		id:    xxhash.Sum64String(path),
		props: newProperties(),
	}
	g.channels = append(g.channels, ch)
	g.channelIdx[name] = ch
	return ch
}
