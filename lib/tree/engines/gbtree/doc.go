// Package gbtree implements tree.Tree on github.com/google/btree.
package gbtree
