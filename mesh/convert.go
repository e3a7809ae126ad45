package mesh

import (
	log "github.com/sirupsen/logrus"
)

// DefaultTagName is the attribute name under which physical tags are written.
const DefaultTagName = "name_to_read"

// Target describes one output file of a conversion: all cells of Type are
// written to File. If Tagged is set, the physical tags of the cells are
// written as a cell attribute named TagName.
type Target struct {
	Type    CellType
	File    string
	Tagged  bool
	TagName string
}

// Split returns the sub-mesh made of the points of m and all of its cells of
// the given type, along with their physical tags. ok is false if m has no
// cells of that type.
func Split(m *Mesh, t CellType) (sub *Mesh, tags []int, ok bool) {
	block, ok := m.Block(t)
	if !ok {
		return nil, nil, false
	}
	tags = block.Physical
	block.Physical = nil

	sub = &Mesh{
		Points:        m.Points,
		Blocks:        []CellBlock{block},
		PhysicalNames: m.PhysicalNames,
	}
	return sub, tags, true
}

// Convert writes one XDMF file per target and returns the names of the files
// that were written. Targets whose cell type does not appear in m are skipped
// with a warning.
func Convert(m *Mesh, targets []Target) ([]string, error) {
	if err := m.Check(); err != nil {
		return nil, err
	}

	written := []string{}
	for _, target := range targets {
		sub, tags, ok := Split(m, target.Type)
		if !ok {
			log.WithFields(log.Fields{
				"type": target.Type,
				"file": target.File,
			}).Warn("Mesh has no cells of this type, skipping output.")
			continue
		}

		var data *CellData
		if target.Tagged {
			if tags == nil {
				log.WithField("type", target.Type).Warn(
					"Cells have no physical tags, writing without them.",
				)
			} else {
				name := target.TagName
				if name == "" {
					name = DefaultTagName
				}
				data = &CellData{Name: name, Values: tags}
			}
		}

		if err := WriteXDMFFile(target.File, sub, &sub.Blocks[0], data); err != nil {
			return written, err
		}

		log.WithFields(log.Fields{
			"type":  target.Type,
			"cells": len(sub.Blocks[0].Cells),
			"file":  target.File,
		}).Info("Wrote mesh.")
		written = append(written, target.File)
	}

	return written, nil
}
