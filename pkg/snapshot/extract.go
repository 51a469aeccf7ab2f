package snapshot

import "strings"

// ProjectRootPrefix is the fixed project root the client mounts its virtual
// file system under. A record whose first key lives below it is taken to be
// a files map itself.
const ProjectRootPrefix = "/home/project"

// Extract identifies the path->content map inside one opaque record.
// Several historical snapshot formats exist, so matching is tiered and the
// first hit wins:
//
//  1. a non-array object under a "files" field
//  2. a non-array object under "snapshot.files"
//  3. the record itself, when its first key starts with ProjectRootPrefix
//
// Anything else is no match.
func Extract(record any) (*FilesMap, bool) {
	obj, ok := viewOf(record)
	if !ok {
		return nil, false
	}

	if files, ok := obj.field("files"); ok {
		if fv, ok := viewOf(files); ok && fv.size() > 0 {
			return filesMapOf(fv), true
		}
	}

	if snap, ok := obj.field("snapshot"); ok {
		if sv, ok := viewOf(snap); ok {
			if files, ok := sv.field("files"); ok {
				if fv, ok := viewOf(files); ok && fv.size() > 0 {
					return filesMapOf(fv), true
				}
			}
		}
	}

	if first, ok := obj.firstKey(); ok && strings.HasPrefix(first, ProjectRootPrefix) {
		return filesMapOf(obj), true
	}

	return nil, false
}
