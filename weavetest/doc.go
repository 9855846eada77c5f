/*
Package weavetest provides fixtures shared by the tests of the treasury
packages: keys, addresses, stores and a recording transfer target.
*/
package weavetest
