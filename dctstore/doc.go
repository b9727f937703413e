/*
Package dctstore loads a directory of *.dct.txt files into a single
key-indexed structure and writes it back out.

On disk, one group is one file (or several numbered shard files when
it outgrows the batch size). In memory, the store is transposed: a
KeyDict maps effective key to group name to item, so that everything
known about one key sits together regardless of which file it came
from.

Saving re-partitions keys into index directories (first-letter buckets
once the store is big enough), splits each group into shard files and
records a small JSON manifest per directory. Clean removes the files a
re-partitioned save left behind.
*/
package dctstore
