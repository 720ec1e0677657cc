package component

// Belt marks a building as a conveyor segment. PathID refers to the path
// registered in the world's path registry at placement time; 0 means
// unassigned, which is a broken placement invariant if the belt is ever the
// target of a handover.
type Belt struct {
	PathID int32
}
