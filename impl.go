package gfxtrace

import (
	"fmt"
	"strings"
)

// implEmitter writes functionhooks.gen.cpp. Emission order and content
// follow spec section 4.5.
type implEmitter struct {
	cat     *Catalog
	plan    *genPlan
	cmdLine string
	out     *codeWriter
}

func newImplEmitter(cat *Catalog, plan *genPlan, cmdLine string) *implEmitter {
	return &implEmitter{cat: cat, plan: plan, cmdLine: cmdLine, out: newCodeWriter("  ")}
}

func (g *implEmitter) output() string { return g.out.String() }

func (g *implEmitter) Emit() {
	g.writeBanner()
	g.writeIncludes()
	g.writeGlobals()
	g.writeRealPointerTable()
	g.writeResolver()
	g.writeAttachersAndDetacher()
	g.writeHookBodies()
	g.writePacketRead()
	g.writePacketWrite()
	g.writePacketPlay()
	g.writePacketFactories()
	for _, sc := range g.cat.StateClasses {
		g.writeStateClass(sc)
	}
}

func (g *implEmitter) writeBanner() {
	g.out.writel("// Generated by gfxtracegen. DO NOT EDIT.")
	g.out.writel("// Command line: " + g.cmdLine)
	g.out.blank()
}

func (g *implEmitter) writeIncludes() {
	g.out.writel(`#include "functionhooks.gen.h"`)
	g.out.writel(`#include "mhook/mhook-lib/mhook.h"`)
	g.out.blank()
}

func (g *implEmitter) globalStateClassName() string {
	if len(g.cat.StateClasses) > 0 {
		return g.cat.StateClasses[0].Name
	}
	return "ContextState"
}

func (g *implEmitter) writeGlobals() {
	g.out.writel("bool gIsRecording = false;")
	g.out.writel(fmt.Sprintf("%s* gContextState = nullptr;", g.globalStateClassName()))
	g.out.blank()
}

// Real-pointer table: static unless the entry needs to be reachable
// from hand-written code (manual detour or public real).
func (g *implEmitter) writeRealPointerTable() {
	for _, e := range g.plan.All {
		vis := "static "
		if e.NeedsManualDetour || e.NeedsPublicReal {
			vis = ""
		}
		init := "nullptr"
		if e.NeedsStaticHook {
			init = e.Name
		}
		g.out.writel(fmt.Sprintf("%s%s (%s* %s)(%s) = %s;", vis, e.returnType(), callingConvention, e.RealPointerName(), e.ArgsDeclaration(), init))
	}
	g.out.blank()
}

func (g *implEmitter) writeResolver() {
	g.out.writel("void Generated_ResolveDynamics() {")
	g.out.indent()
	g.out.writeil(`HMODULE hModule = GetModuleHandleA("opengl32.dll");`)
	for _, e := range g.plan.All {
		if e.NeedsStaticHook {
			continue
		}
		g.out.blank()
		g.out.writeil(fmt.Sprintf("%s = (%s (%s*)(%s))wglGetProcAddress(\"%s\");", e.RealPointerName(), e.returnType(), callingConvention, e.ArgsDeclaration(), e.Name))
		g.out.writeil(fmt.Sprintf("if (!%s) {", e.RealPointerName()))
		g.out.indent()
		g.out.writeil(fmt.Sprintf("%s = (%s (%s*)(%s))GetProcAddress(hModule, \"%s\");", e.RealPointerName(), e.returnType(), callingConvention, e.ArgsDeclaration(), e.Name))
		g.out.unindent()
		g.out.writeil("}")
	}
	g.out.unindent()
	g.out.writel("}")
	g.out.blank()
}

func (g *implEmitter) writeAttachersAndDetacher() {
	g.out.writel("void Generated_AttachStaticHooks() {")
	g.out.indent()
	g.out.writeil("Mhook_BeginMultiOperation(FALSE);")
	for _, e := range g.plan.All {
		if e.NeedsStaticHook {
			g.out.writeil(fmt.Sprintf("Mhook_SetHook((PVOID*)&%s, %s);", e.RealPointerName(), e.DetouredName()))
		}
	}
	g.out.writeil("Mhook_EndMultiOperation();")
	g.out.unindent()
	g.out.writel("}")
	g.out.blank()

	g.out.writel("void Generated_AttachDynamicHooks() {")
	g.out.indent()
	g.out.writeil("Mhook_BeginMultiOperation(FALSE);")
	for _, e := range g.plan.All {
		if !e.NeedsStaticHook {
			g.out.writeil(fmt.Sprintf("Mhook_SetHook((PVOID*)&%s, %s);", e.RealPointerName(), e.DetouredName()))
		}
	}
	g.out.writeil("Mhook_EndMultiOperation();")
	g.out.unindent()
	g.out.writel("}")
	g.out.blank()

	g.out.writel("void Generated_DetachAllHooks() {")
	g.out.indent()
	g.out.writeil("Mhook_BeginMultiOperation(FALSE);")
	for _, e := range g.plan.All {
		g.out.writeil(fmt.Sprintf("Mhook_Unhook((PVOID*)&%s);", e.RealPointerName()))
	}
	g.out.writeil("Mhook_EndMultiOperation();")
	g.out.unindent()
	g.out.writel("}")
	g.out.blank()
}

func (g *implEmitter) writeHookBodies() {
	for _, e := range g.plan.All {
		if e.NeedsManualDetour {
			continue
		}
		target := g.plan.resolvedCallTarget(g.cat, e)
		g.out.writel(fmt.Sprintf("%s %s %s(%s) {", e.returnType(), callingConvention, e.DetouredName(), e.ArgsDeclaration()))
		g.out.indent()
		if e.isVoid() {
			g.out.writeil(fmt.Sprintf("%s(%s);", target.RealPointerName(), e.ArgsPassing()))
		} else {
			g.out.writeil(fmt.Sprintf("%s returnValue = %s(%s);", e.returnType(), target.RealPointerName(), e.ArgsPassing()))
		}
		g.out.blank()
		g.out.writeil("if (!gContextState->CheckOwnerThreadId()) {")
		g.out.indent()
		g.out.writeil(g.returnStatement(e))
		g.out.unindent()
		g.out.writeil("}")
		g.out.blank()
		if e.Supported {
			g.out.writeil("if (gIsRecording) {")
			g.out.indent()
			g.out.writeil(fmt.Sprintf("SSerializeDataPacket::%s(%s).Write(&FileLike(gMessageStream));", target.Name, e.ArgsPassing()))
			g.out.unindent()
			g.out.writeil("}")
			if e.IsState {
				g.out.writeil(fmt.Sprintf("gContextState->%s(%s);", target.Name, target.ArgsPassingAsState()))
			}
		} else {
			g.out.writeil(fmt.Sprintf("Once(TraceError(\"%s was called, but is unsupported on this context.\"));", e.Name))
		}
		g.out.blank()
		g.out.writeil(g.returnStatement(e))
		g.out.unindent()
		g.out.writel("}")
		g.out.blank()
	}
}

func (g *implEmitter) returnStatement(e *EntryPoint) string {
	if e.isVoid() {
		return "return;"
	}
	return "return returnValue;"
}

func fieldRefs(e *EntryPoint, member string) string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = fmt.Sprintf("%s.%s", member, a.Name)
	}
	return strings.Join(parts, ", ")
}

func (g *implEmitter) writePacketRead() {
	g.out.writel("void SSerializeDataPacket::Read(FileLike* stream) {")
	g.out.indent()
	g.out.writeil("stream->ReadRaw(this, sizeof(*this));")
	g.out.writeil("switch (mDataType) {")
	g.out.indent()
	for _, e := range g.plan.PacketEntries {
		if !e.HasAnyPointers() {
			continue
		}
		g.out.writeil(fmt.Sprintf("case %s: {", e.DataName()))
		g.out.indent()
		member := e.DataStructMemberName()
		for _, a := range e.Args {
			if !a.IsPointer {
				continue
			}
			g.out.writeil(fmt.Sprintf("size_t length%s = (size_t)%s.%s;", a.Name, member, a.Name))
			g.out.writeil(fmt.Sprintf("if (length%s != 0) {", a.Name))
			g.out.indent()
			g.out.writeil(fmt.Sprintf("void* buffer%s = malloc(length%s);", a.Name, a.Name))
			g.out.writeil(fmt.Sprintf("stream->ReadRaw(buffer%s, length%s);", a.Name, a.Name))
			g.out.writeil(fmt.Sprintf("%s.%s = (%s)buffer%s;", member, a.Name, a.CType, a.Name))
			g.out.unindent()
			g.out.writeil("} else {")
			g.out.indent()
			g.out.writeil(fmt.Sprintf("stream->Read(&%s.%s);", member, a.Name))
			g.out.unindent()
			g.out.writeil("}")
		}
		g.out.writeil("break;")
		g.out.unindent()
		g.out.writeil("}")
	}
	g.out.writeil("case EST_Message: {")
	g.out.indent()
	g.out.writeil("if (mData_Message.mLength != 0) {")
	g.out.indent()
	g.out.writeil("char* buffer = (char*)malloc(mData_Message.mLength);")
	g.out.writeil("stream->ReadRaw(buffer, mData_Message.mLength);")
	g.out.writeil("mData_Message.mText = buffer;")
	g.out.unindent()
	g.out.writeil("}")
	g.out.writeil("break;")
	g.out.unindent()
	g.out.writeil("}")
	g.out.writeil("default:")
	g.out.indent()
	g.out.writeil("break;")
	g.out.unindent()
	g.out.unindent()
	g.out.writeil("}")
	g.out.unindent()
	g.out.writel("}")
	g.out.blank()
}

func (g *implEmitter) writePacketWrite() {
	g.out.writel("void SSerializeDataPacket::Write(FileLike* stream) const {")
	g.out.indent()
	g.out.writeil("SSerializeDataPacket copy = *this;")
	g.out.writeil("copy.mPacketId = stream->AllocatePacketId();")
	g.out.writeil("switch (copy.mDataType) {")
	g.out.indent()
	for _, e := range g.plan.PacketEntries {
		g.out.writeil(fmt.Sprintf("case %s: {", e.DataName()))
		g.out.indent()
		member := e.DataStructMemberName()
		pointerArgs := g.plan.PointerArgs[e.Name]
		for _, pp := range pointerArgs {
			a := e.Args[pp.ArgIndex]
			if pp.Inferred {
				g.out.writeil(fmt.Sprintf("size_t length%s = %s(%s);", a.Name, pp.HelperName, fieldRefs(e, member)))
			} else {
				g.out.writeil(fmt.Sprintf("size_t length%s = %s(gContextState, %s);", a.Name, pp.HelperName, fieldRefs(e, member)))
			}
			g.out.writeil(fmt.Sprintf("copy.%s.%s = (%s)length%s;", member, a.Name, a.CType, a.Name))
		}
		g.out.writeil("stream->WriteRaw(&copy, sizeof(copy));")
		for _, pp := range pointerArgs {
			a := e.Args[pp.ArgIndex]
			g.out.writeil(fmt.Sprintf("if (length%s != 0) {", a.Name))
			g.out.indent()
			g.out.writeil(fmt.Sprintf("stream->WriteRaw(%s.%s, length%s);", member, a.Name, a.Name))
			g.out.unindent()
			g.out.writeil("} else {")
			g.out.indent()
			g.out.writeil(fmt.Sprintf("stream->Write(%s.%s);", member, a.Name))
			g.out.unindent()
			g.out.writeil("}")
		}
		g.out.writeil("break;")
		g.out.unindent()
		g.out.writeil("}")
	}
	g.out.writeil("case EST_Message: {")
	g.out.indent()
	g.out.writeil("copy.mData_Message.mLength = strlen(mData_Message.mText);")
	g.out.writeil("stream->WriteRaw(&copy, sizeof(copy));")
	g.out.writeil("stream->WriteRaw(mData_Message.mText, copy.mData_Message.mLength);")
	g.out.writeil("break;")
	g.out.unindent()
	g.out.writeil("}")
	g.out.writeil("default:")
	g.out.indent()
	g.out.writeil("stream->WriteRaw(&copy, sizeof(copy));")
	g.out.writeil("break;")
	g.out.unindent()
	g.out.unindent()
	g.out.writeil("}")
	g.out.unindent()
	g.out.writel("}")
	g.out.blank()
}

func (g *implEmitter) writePacketPlay() {
	g.out.writel("void SSerializeDataPacket::Play() const {")
	g.out.indent()
	g.out.writeil("switch (mDataType) {")
	g.out.indent()
	for _, e := range g.plan.PacketEntries {
		g.out.writeil(fmt.Sprintf("case %s: {", e.DataName()))
		g.out.indent()
		if e.IsAppleGuarded() {
			g.out.writeil("#ifdef _APPLE")
		}
		member := e.DataStructMemberName()
		if e.NeedsManualReplay {
			g.out.writeil(fmt.Sprintf("ManualPlay_%s(*this);", e.Name))
		} else {
			g.out.writeil(fmt.Sprintf("::%s(%s);", e.Name, fieldRefs(e, member)))
		}
		if e.IsAppleGuarded() {
			g.out.writeil("#endif")
		}
		g.out.writeil("break;")
		g.out.unindent()
		g.out.writeil("}")
	}
	g.out.writeil("default:")
	g.out.indent()
	g.out.writeil("break;")
	g.out.unindent()
	g.out.unindent()
	g.out.writeil("}")
	g.out.unindent()
	g.out.writel("}")
	g.out.blank()
}

func (g *implEmitter) writePacketFactories() {
	for _, e := range g.plan.PacketEntries {
		g.out.writel(fmt.Sprintf("SSerializeDataPacket SSerializeDataPacket::%s(%s) {", e.Name, e.ArgsDeclaration()))
		g.out.indent()
		g.out.writeil("SSerializeDataPacket result;")
		g.out.writeil("memset(&result, 0, sizeof(result));")
		g.out.writeil(fmt.Sprintf("result.mDataType = %s;", e.DataName()))
		member := e.DataStructMemberName()
		for _, a := range e.Args {
			g.out.writeil(fmt.Sprintf("result.%s.%s = %s;", member, a.Name, a.Name))
		}
		g.out.writeil("return result;")
		g.out.unindent()
		g.out.writel("}")
		g.out.blank()
	}
}

func (g *implEmitter) writeStateClass(sc *StateClass) {
	g.writeStateCtorDtor(sc)
	g.writeStateWrite(sc)
	g.writeStateRead(sc)
	g.writeStateRestore(sc)
	g.writeStateSetters(sc)
}

func (g *implEmitter) writeStateCtorDtor(sc *StateClass) {
	g.out.writel(fmt.Sprintf("%s::%s() {", sc.Name, sc.Name))
	g.out.indent()
	if sc.HasManualData() {
		g.out.writeil(fmt.Sprintf("memset(this, 0, offsetof(%s, %s));", sc.Name, sc.Data[0].Name))
		g.out.writeil("ManualConstruct();")
	} else {
		g.out.writeil("memset(this, 0, sizeof(*this));")
	}
	g.out.unindent()
	g.out.writel("}")
	g.out.blank()

	g.out.writel(fmt.Sprintf("%s::~%s() {", sc.Name, sc.Name))
	g.out.indent()
	if sc.HasManualData() {
		g.out.writeil("ManualDestruct();")
	}
	g.out.unindent()
	g.out.writel("}")
	g.out.blank()
}

func (g *implEmitter) writeStateWrite(sc *StateClass) {
	g.out.writel(fmt.Sprintf("void %s::Write(FileLike* stream) const {", sc.Name))
	g.out.indent()
	g.out.writeil(`Checkpoint("CurrentStateBegin");`)
	for _, e := range sc.AutomaticMembers() {
		g.out.writeil(fmt.Sprintf("stream->Write(%s);", e.HasSetFlagName()))
		g.out.writeil(fmt.Sprintf("if (%s) {", e.HasSetFlagName()))
		g.out.indent()
		g.out.writeil(fmt.Sprintf("SSerializeDataPacket::%s(%s).Write(stream);", e.Name, fieldRefs(e, e.DataStructMemberName())))
		g.out.unindent()
		g.out.writeil("}")
	}
	g.out.writeil("ManualWrite(stream);")
	g.out.writeil(`Checkpoint("CurrentStateEnd");`)
	g.out.unindent()
	g.out.writel("}")
	g.out.blank()
}

func (g *implEmitter) writeStateRead(sc *StateClass) {
	g.out.writel(fmt.Sprintf("void %s::Read(FileLike* stream) {", sc.Name))
	g.out.indent()
	g.out.writeil(`Checkpoint("CurrentStateBegin");`)
	for _, e := range sc.AutomaticMembers() {
		g.out.writeil(fmt.Sprintf("stream->Read(&%s);", e.HasSetFlagName()))
		g.out.writeil(fmt.Sprintf("if (%s) {", e.HasSetFlagName()))
		g.out.indent()
		g.out.writeil("SSerializeDataPacket packet;")
		g.out.writeil("packet.Read(stream);")
		g.out.writeil("switch (packet.mDataType) {")
		g.out.indent()
		g.out.writeil(fmt.Sprintf("case %s:", e.DataName()))
		g.out.indent()
		g.out.writeil(fmt.Sprintf("%s(%s);", e.Name, fieldRefs(e, "packet."+e.DataStructMemberName())))
		g.out.writeil("break;")
		g.out.unindent()
		g.out.writeil("default:")
		g.out.indent()
		g.out.writeil("break;")
		g.out.unindent()
		g.out.unindent()
		g.out.writeil("}")
		g.out.unindent()
		g.out.writeil("}")
	}
	g.out.writeil("ManualRead(stream);")
	g.out.writeil(`Checkpoint("CurrentStateEnd");`)
	g.out.unindent()
	g.out.writel("}")
	g.out.blank()
}

func (g *implEmitter) writeStateRestore(sc *StateClass) {
	g.out.writel(fmt.Sprintf("void %s::Restore() const {", sc.Name))
	g.out.indent()
	g.out.writeil("CHECK_GL_ERROR();")
	g.out.writeil("ManualPreRestore();")
	for _, e := range sc.RestorableMembers() {
		g.out.writeil(fmt.Sprintf("if (%s) {", e.HasSetFlagName()))
		g.out.indent()
		if e.IsAppleGuarded() {
			g.out.writeil("#ifdef _APPLE")
		}
		g.out.writeil(fmt.Sprintf("::%s(%s);", e.Name, fieldRefs(e, e.DataStructMemberName())))
		g.out.writeil("CHECK_GL_ERROR();")
		if e.IsAppleGuarded() {
			g.out.writeil("#endif")
		}
		g.out.unindent()
		g.out.writeil("}")
	}
	g.out.writeil("ManualRestore();")
	g.out.unindent()
	g.out.writel("}")
	g.out.blank()
}

func (g *implEmitter) writeStateSetters(sc *StateClass) {
	for _, e := range sc.AutomaticMembers() {
		member := e.DataStructMemberName()
		g.out.writel(fmt.Sprintf("void %s::%s(%s) {", sc.Name, e.Name, e.ArgsDeclarationAsState()))
		g.out.indent()
		g.out.writeil(fmt.Sprintf("%s = true;", e.HasSetFlagName()))
		pointerArgs := g.plan.PointerArgs[e.Name]
		pointerArgIdx := map[int]pointerArgPlan{}
		for _, pp := range pointerArgs {
			pointerArgIdx[pp.ArgIndex] = pp
		}
		for i, a := range e.Args {
			if pp, isPointer := pointerArgIdx[i]; isPointer {
				g.out.writeil(fmt.Sprintf("if (%s.%s) { SafeFree((void*)%s.%s); }", member, a.Name, member, a.Name))
				if pp.Inferred {
					g.out.writeil(fmt.Sprintf("size_t length = %s(%s);", pp.HelperName, e.ArgsPassing()))
				} else {
					g.out.writeil(fmt.Sprintf("size_t length = %s(this, %s);", pp.HelperName, e.ArgsPassingAsState()))
				}
				g.out.writeil("if (length != 0) {")
				g.out.indent()
				g.out.writeil("void* buffer = malloc(length);")
				g.out.writeil(fmt.Sprintf("memcpy(buffer, (const void*)(%s)%s, length);", a.LValueType(), a.Name))
				g.out.writeil(fmt.Sprintf("%s.%s = (%s)buffer;", member, a.Name, a.CType))
				if a.IsPointerOrOffset {
					g.out.writeil(fmt.Sprintf("%s.%s = true;", member, a.PointerOrOffsetName()))
				}
				g.out.unindent()
				g.out.writeil("} else {")
				g.out.indent()
				if a.IsPointerOrOffset {
					g.out.writeil(fmt.Sprintf("%s.%s = %s;", member, a.Name, a.Name))
					g.out.writeil(fmt.Sprintf("%s.%s = false;", member, a.PointerOrOffsetName()))
				} else {
					g.out.writeil(fmt.Sprintf("Once(TraceWarn(\"%s: zero-length buffer for %s\"));", e.Name, a.Name))
				}
				g.out.unindent()
				g.out.writeil("}")
			} else {
				g.out.writeil(fmt.Sprintf("%s.%s = %s;", member, a.Name, a.Name))
			}
		}
		g.out.unindent()
		g.out.writel("}")
		g.out.blank()
	}
}
