// package insights derives human-readable statements and display values from listening data.
//
// Every function is pure and total: missing features count as 0, empty inputs yield empty
// outputs, and values outside [0,1] are used as given.
package insights
