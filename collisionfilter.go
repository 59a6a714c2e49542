package urdf

import (
	"sort"

	"go.viam.com/urdf/xmltree"
)

// allowSelfCollisionAttr exempts a collision filter group from filtering
// collisions among its own members.
const allowSelfCollisionAttr = "allow_self_collision"

// parseCollisionFilterGroup handles one <viam:collision_filter_group>
// element. Groups are only collected here; the pairwise relation is resolved
// once the whole document has been walked. A group missing its name is
// skipped entirely; a member or ignore entry missing its attribute is
// skipped on its own and the rest of the group survives.
func (w *workspace) parseCollisionFilterGroup(el *xmltree.Element) error {
	if boolAttribute(el, "ignore") {
		return nil
	}

	var name string
	if !parseStringAttribute(el, "name", &name) {
		return w.errorf(el, "The tag <%s> does not specify the required attribute \"name\".", filterGroupTag)
	}
	for _, group := range w.groups {
		if group.Name == name {
			return w.errorf(el, "collision filter group '%s' is defined more than once", name)
		}
	}

	group := &CollisionFilterGroupSpec{
		Name:       name,
		SelfIgnore: !boolAttribute(el, allowSelfCollisionAttr),
	}
	for _, child := range el.Children {
		switch child.Tag {
		case memberTag:
			var link string
			if !parseStringAttribute(child, "link", &link) {
				_ = w.errorf(child, "The tag <%s> does not specify the required attribute \"link\".", memberTag)
				continue
			}
			handle, err := w.linkByName(child, link, memberTag)
			if err != nil {
				continue
			}
			group.Members = append(group.Members, link)
			group.members = append(group.members, handle)
		case ignoredGroupTag:
			var ignored string
			if !parseStringAttribute(child, "name", &ignored) {
				_ = w.errorf(child, "The tag <%s> does not specify the required attribute \"name\".", ignoredGroupTag)
				continue
			}
			group.Ignores = append(group.Ignores, ignored)
		}
	}

	w.groups = append(w.groups, group)
	return nil
}

// resolveCollisionFilterGroups turns the declared groups into a symmetric
// pairwise filtering relation and forwards it to the builder in one call. A
// pair of distinct links is filtered when some group containing one link
// ignores a group containing the other, or when both links share a
// self-ignoring group. Every applicable rule contributes; there is no
// precedence among them. Ignored names that match no declared group are
// no-ops.
func (w *workspace) resolveCollisionFilterGroups(root *xmltree.Element) {
	if len(w.groups) == 0 {
		return
	}
	byName := make(map[string]*CollisionFilterGroupSpec, len(w.groups))
	for _, group := range w.groups {
		byName[group.Name] = group
	}

	filtered := map[LinkPair]bool{}
	for _, group := range w.groups {
		ignores := group.Ignores
		if group.SelfIgnore {
			ignores = append([]string{group.Name}, ignores...)
		}
		for _, name := range ignores {
			other, ok := byName[name]
			if !ok {
				continue
			}
			for _, a := range group.members {
				for _, b := range other.members {
					if a == b {
						continue
					}
					filtered[newLinkPair(a, b)] = true
				}
			}
		}
	}
	if len(filtered) == 0 {
		return
	}

	pairs := make([]LinkPair, 0, len(filtered))
	for pair := range filtered {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	if err := w.builder.FilterCollisionPairs(w.instance, pairs); err != nil {
		_ = w.errorAt(root.Line, "%s", err)
	}
}
