/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket contains only one type of object, encoded with the package Codec.
Sequences provide auto-increment keys that sort in creation order.
*/
package orm
